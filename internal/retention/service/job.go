package service

import (
	"context"
	"time"

	"dailysketch/internal/common/storage"
	"dailysketch/internal/retention/repository"
	"dailysketch/pkg/errors"
	"dailysketch/pkg/utils/logger"

	"go.uber.org/zap"
)

const defaultPageSize = 1000

// Options controls one retention job instance.
type Options struct {
	// Bucket holds the submission payloads.
	Bucket string

	// PageSize bounds each candidate fetch. Default 1000.
	PageSize int

	// ChunkSize bounds concurrent entitlement lookups. Default 25.
	ChunkSize int

	// Now supplies the clock; defaults to time.Now. The cutoff date is
	// computed from it exactly once per run.
	Now func() time.Time
}

// Summary reports one finished run.
type Summary struct {
	Cutoff         time.Time
	Pages          int
	RowsDeleted    int
	ObjectsDeleted int
	OwnersResolved int
	Duration       time.Duration
}

// RetentionJob deletes expired, non-premium submissions page by page:
// fetch candidates, resolve entitlements, delete payloads then rows,
// until a fetch comes back empty.
type RetentionJob struct {
	repo      repository.SubmissionRepository
	checker   repository.EntitlementChecker
	storage   storage.ObjectStorage
	bucket    string
	pageSize  int
	chunkSize int
	now       func() time.Time
}

// NewRetentionJob creates a job. The entitlement cache is not created here;
// each Run constructs and discards its own.
func NewRetentionJob(repo repository.SubmissionRepository, checker repository.EntitlementChecker, obj storage.ObjectStorage, opts Options) *RetentionJob {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &RetentionJob{
		repo:      repo,
		checker:   checker,
		storage:   obj,
		bucket:    opts.Bucket,
		pageSize:  pageSize,
		chunkSize: chunkSize,
		now:       now,
	}
}

// Run executes one full cleanup pass. Pages are processed strictly
// sequentially; the cursor only moves forward and the cutoff never changes
// during the run, so no row is ever returned twice. Any failure aborts the
// run immediately with no rollback of already-committed deletions.
func (j *RetentionJob) Run(ctx context.Context) (Summary, error) {
	started := j.now()
	cutoff := utcDate(started)

	resolver := NewEntitlementResolver(j.checker, j.chunkSize)
	deleter := NewBatchDeleter(resolver, j.repo, j.storage, j.bucket)

	summary := Summary{Cutoff: cutoff}
	var cursor int64

	logger.Info(ctx, "retention run started",
		zap.Time("cutoff", cutoff),
		zap.Int("page_size", j.pageSize),
	)

	for {
		page, err := j.repo.FetchExpired(ctx, cutoff, cursor, j.pageSize)
		if err != nil {
			recordRunFailure()
			return summary, errors.Wrap(err, errors.FetchBatchFailed)
		}
		if len(page) == 0 {
			break
		}

		// Advance even when the whole page turns out exempt, or the loop
		// would refetch the same rows forever.
		cursor = page[len(page)-1].ID
		summary.Pages++

		owners := make([]string, 0, len(page))
		for _, sub := range page {
			owners = append(owners, sub.OwnerID)
		}
		if err := resolver.Resolve(ctx, owners); err != nil {
			recordRunFailure()
			return summary, err
		}

		rows, objects, err := deleter.Process(ctx, page)
		if err != nil {
			recordRunFailure()
			return summary, err
		}

		summary.RowsDeleted += rows
		summary.ObjectsDeleted += objects
		recordPage(rows, objects)

		logger.Info(ctx, "page processed",
			zap.Int("page", summary.Pages),
			zap.Int("fetched", len(page)),
			zap.Int("rows_deleted", rows),
			zap.Int("objects_deleted", objects),
			zap.Int64("cursor", cursor),
		)
	}

	summary.OwnersResolved = resolver.CachedOwners()
	summary.Duration = j.now().Sub(started)
	recordRunSuccess(summary)

	logger.Info(ctx, "retention run finished",
		zap.Int("pages", summary.Pages),
		zap.Int("rows_deleted", summary.RowsDeleted),
		zap.Int("objects_deleted", summary.ObjectsDeleted),
		zap.Int("owners_resolved", summary.OwnersResolved),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// utcDate truncates t to a UTC calendar date with no time component.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
