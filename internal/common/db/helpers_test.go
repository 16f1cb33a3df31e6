package db_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"dailysketch/internal/common/db"

	"github.com/lib/pq"
)

func TestIsNoRows(t *testing.T) {
	if !db.IsNoRows(sql.ErrNoRows) {
		t.Error("IsNoRows(sql.ErrNoRows) = false, want true")
	}
	if !db.IsNoRows(fmt.Errorf("query failed: %w", sql.ErrNoRows)) {
		t.Error("IsNoRows should see through wrapping")
	}
	if db.IsNoRows(errors.New("boom")) {
		t.Error("IsNoRows(plain error) = true, want false")
	}
}

func TestIsUndefinedFunction(t *testing.T) {
	undefined := &pq.Error{
		Code:    "42883",
		Message: "function is_premium_user(uid => unknown) does not exist",
	}

	tests := []struct {
		name     string
		err      error
		funcName string
		want     bool
	}{
		{"matching function", undefined, "is_premium_user", true},
		{"wrapped error", fmt.Errorf("query failed: %w", undefined), "is_premium_user", true},
		{"any function when name empty", undefined, "", true},
		{"different function", undefined, "other_function", false},
		{"different sqlstate", &pq.Error{Code: "42P01", Message: "relation does not exist"}, "is_premium_user", false},
		{"plain error", errors.New("boom"), "is_premium_user", false},
		{"nil error", nil, "is_premium_user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := db.IsUndefinedFunction(tt.err, tt.funcName); got != tt.want {
				t.Errorf("IsUndefinedFunction() = %v, want %v", got, tt.want)
			}
		})
	}
}
