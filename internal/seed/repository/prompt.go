package repository

import (
	"context"
	"time"

	"dailysketch/internal/common/db"
)

// PromptRepository manages daily prompt rows for the seeding pass.
type PromptRepository interface {
	// EnsureDaily inserts a prompt for the given date and difficulty tier if
	// none exists, picking a random idea from the tier's pool. Returns true
	// when a row was inserted, false when the date/tier was already seeded.
	EnsureDaily(ctx context.Context, date time.Time, tier string) (bool, error)

	// HasDaily reports whether a prompt exists for the date and tier.
	HasDaily(ctx context.Context, date time.Time, tier string) (bool, error)
}

// PostgresPromptRepository implements PromptRepository with PostgreSQL.
type PostgresPromptRepository struct {
	db db.Database
}

// NewPromptRepository creates a prompt repository.
func NewPromptRepository(database db.Database) *PostgresPromptRepository {
	return &PostgresPromptRepository{db: database}
}

const ensureDailyQuery = `
	INSERT INTO prompts (prompt_date, difficulty, title)
	SELECT $1, $2, i.title
	FROM prompt_ideas i
	WHERE i.difficulty = $2
	ORDER BY random()
	LIMIT 1
	ON CONFLICT (prompt_date, difficulty) DO NOTHING
`

// EnsureDaily upserts one prompt row; the unique (prompt_date, difficulty)
// constraint makes repeated seeding a no-op.
func (r *PostgresPromptRepository) EnsureDaily(ctx context.Context, date time.Time, tier string) (bool, error) {
	result, err := r.db.Exec(ctx, ensureDailyQuery, date, tier)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// HasDaily checks for an existing prompt row.
func (r *PostgresPromptRepository) HasDaily(ctx context.Context, date time.Time, tier string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM prompts WHERE prompt_date = $1 AND difficulty = $2)`,
		date, tier,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
