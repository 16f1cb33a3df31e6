package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"dailysketch/internal/common/db"
	"dailysketch/pkg/errors"
	"dailysketch/pkg/utils/logger"

	"go.uber.org/zap"
)

// EntitlementChecker answers whether one owner is exempt from deletion.
type EntitlementChecker interface {
	// IsPremium returns the premium flag for the owner. Any error, including
	// a NULL result, must be treated as fatal by the caller; an unresolved
	// entitlement is never a deletion-safe state.
	IsPremium(ctx context.Context, ownerID string) (bool, error)
}

// EntitlementConfig names the stored boolean function and its argument.
// Deployments migrated at different times disagree on the argument name,
// hence the legacy fallback.
type EntitlementConfig struct {
	Function  string `yaml:"function"`  // default: is_premium_user
	Arg       string `yaml:"arg"`       // default: uid
	LegacyArg string `yaml:"legacyArg"` // default: user_uuid
}

const (
	defaultEntitlementFunction = "is_premium_user"
	defaultEntitlementArg      = "uid"
	defaultEntitlementLegacy   = "user_uuid"
)

var sqlIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresEntitlementChecker calls a boolean stored function with a named
// argument. On an undefined-function error that names the function, it
// retries exactly once per call with the legacy argument name and keeps
// using it for the rest of the run.
type PostgresEntitlementChecker struct {
	db        db.Database
	function  string
	arg       string
	legacyArg string

	mu        sync.Mutex
	useLegacy bool
	warnOnce  sync.Once
}

// NewEntitlementChecker creates a checker, validating the configured
// identifiers since they are interpolated into the statement.
func NewEntitlementChecker(database db.Database, cfg EntitlementConfig) (*PostgresEntitlementChecker, error) {
	if cfg.Function == "" {
		cfg.Function = defaultEntitlementFunction
	}
	if cfg.Arg == "" {
		cfg.Arg = defaultEntitlementArg
	}
	if cfg.LegacyArg == "" {
		cfg.LegacyArg = defaultEntitlementLegacy
	}
	for _, ident := range []string{cfg.Function, cfg.Arg, cfg.LegacyArg} {
		if !sqlIdentifier.MatchString(ident) {
			return nil, errors.Newf(errors.ConfigInvalid, "invalid entitlement identifier: %q", ident)
		}
	}
	return &PostgresEntitlementChecker{
		db:        database,
		function:  cfg.Function,
		arg:       cfg.Arg,
		legacyArg: cfg.LegacyArg,
	}, nil
}

// IsPremium resolves the premium flag for one owner.
func (c *PostgresEntitlementChecker) IsPremium(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, errors.New(errors.InvalidParams).WithMessage("ownerID is required")
	}

	c.mu.Lock()
	arg := c.arg
	if c.useLegacy {
		arg = c.legacyArg
	}
	legacyActive := c.useLegacy
	c.mu.Unlock()

	premium, err := c.call(ctx, arg, ownerID)
	if err == nil {
		return premium, nil
	}
	if legacyActive || !db.IsUndefinedFunction(err, c.function) {
		return false, err
	}

	// The canonical argument name is unknown to this deployment. Retry once
	// with the legacy name and remember the outcome for the rest of the run.
	c.warnOnce.Do(func() {
		logger.Warn(ctx, "entitlement function rejected canonical argument name, falling back to legacy",
			zap.String("function", c.function),
			zap.String("arg", c.arg),
			zap.String("legacy_arg", c.legacyArg),
		)
	})

	premium, err = c.call(ctx, c.legacyArg, ownerID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.useLegacy = true
	c.mu.Unlock()
	return premium, nil
}

func (c *PostgresEntitlementChecker) call(ctx context.Context, arg, ownerID string) (bool, error) {
	query := fmt.Sprintf(`SELECT %s(%s => $1)`, c.function, arg)

	var premium sql.NullBool
	if err := c.db.QueryRow(ctx, query, ownerID).Scan(&premium); err != nil {
		return false, err
	}
	if !premium.Valid {
		return false, errors.Newf(errors.EntitlementAmbiguous, "entitlement function %s returned NULL for owner %s", c.function, ownerID)
	}
	return premium.Bool, nil
}
