package db

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// IsNoRows checks if the error is sql.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUndefinedFunction reports whether the error is a PostgreSQL
// undefined_function error (SQLSTATE 42883) referencing funcName.
// This is how a named-argument mismatch on a stored function surfaces:
// the server resolves the call by signature, so a wrong argument name
// means "function does not exist".
func IsUndefinedFunction(err error, funcName string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "42883" {
		return false
	}
	return funcName == "" || strings.Contains(pqErr.Message, funcName)
}
