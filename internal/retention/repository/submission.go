package repository

import (
	"context"
	"errors"
	"time"

	"dailysketch/internal/common/db"

	"github.com/lib/pq"
)

// Submission is one user artwork tied to a daily prompt. Only the columns
// the retention job reads are mapped; rows are created elsewhere and this
// job only ever deletes them.
type Submission struct {
	ID         int64
	OwnerID    string
	ObjectKey  string // empty means no stored binary for this row
	PromptDate time.Time
}

// SubmissionRepository defines the relational operations of the cleanup loop.
type SubmissionRepository interface {
	// FetchExpired returns the next page of submissions whose prompt date is
	// strictly before cutoff, ordered by id ascending, restricted to
	// id > cursor when cursor > 0, at most limit rows. Submissions without a
	// resolvable prompt are excluded by the inner join.
	FetchExpired(ctx context.Context, cutoff time.Time, cursor int64, limit int) ([]Submission, error)

	// DeleteByIDs removes the given submission rows in one statement and
	// returns the number of rows actually deleted.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// PostgresSubmissionRepository implements SubmissionRepository with PostgreSQL.
type PostgresSubmissionRepository struct {
	db db.Database
}

// NewSubmissionRepository creates a submission repository.
func NewSubmissionRepository(database db.Database) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: database}
}

const fetchExpiredQuery = `
	SELECT s.id, s.owner_id, COALESCE(s.object_key, ''), p.prompt_date
	FROM submissions s
	INNER JOIN prompts p ON p.id = s.prompt_id
	WHERE p.prompt_date < $1 AND s.id > $2
	ORDER BY s.id ASC
	LIMIT $3
`

// FetchExpired reads one page of expired submissions.
func (r *PostgresSubmissionRepository) FetchExpired(ctx context.Context, cutoff time.Time, cursor int64, limit int) ([]Submission, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	rows, err := r.db.Query(ctx, fetchExpiredQuery, cutoff, cursor, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var page []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.ObjectKey, &s.PromptDate); err != nil {
			return nil, err
		}
		page = append(page, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return page, nil
}

// DeleteByIDs deletes submission rows by id set.
func (r *PostgresSubmissionRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.Exec(ctx, `DELETE FROM submissions WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
