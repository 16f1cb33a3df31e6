package service

import (
	"context"

	"dailysketch/internal/common/storage"
	"dailysketch/internal/retention/repository"
	"dailysketch/pkg/errors"
	"dailysketch/pkg/utils/logger"

	"go.uber.org/zap"
)

// BatchDeleter deletes one page of submissions: object payloads first, rows
// second, never the reverse. A row must never be deleted while its payload
// might still exist; the opposite window (payload gone, row present) is
// accepted and self-heals on the next run.
type BatchDeleter struct {
	resolver *EntitlementResolver
	repo     repository.SubmissionRepository
	storage  storage.ObjectStorage
	bucket   string
}

// NewBatchDeleter creates a deleter bound to one run's resolver.
func NewBatchDeleter(resolver *EntitlementResolver, repo repository.SubmissionRepository, obj storage.ObjectStorage, bucket string) *BatchDeleter {
	return &BatchDeleter{
		resolver: resolver,
		repo:     repo,
		storage:  obj,
		bucket:   bucket,
	}
}

// Process deletes the non-exempt rows of the page and returns how many rows
// and distinct objects were removed. An all-exempt page is a no-op: no
// object-store or relational calls at all.
func (d *BatchDeleter) Process(ctx context.Context, page []repository.Submission) (int, int, error) {
	candidates := make([]repository.Submission, 0, len(page))
	for _, sub := range page {
		exempt, err := d.resolver.IsExempt(sub.OwnerID)
		if err != nil {
			return 0, 0, err
		}
		if exempt {
			continue
		}
		candidates = append(candidates, sub)
	}

	if len(candidates) == 0 {
		return 0, 0, nil
	}

	keys := dedupeKeys(candidates)

	var removed storage.RemoveResult
	if len(keys) > 0 {
		var err error
		removed, err = d.storage.RemoveObjects(ctx, d.bucket, keys)
		if err != nil {
			return 0, 0, errors.Wrap(err, errors.RemoveObjectsFailed)
		}
		if len(removed.Failures) > 0 {
			for _, failure := range removed.Failures {
				logger.Error(ctx, "object delete failed",
					zap.String("key", failure.Key),
					zap.String("reason", failure.Message),
				)
			}
			// Row deletion is withheld: a surviving object must keep its row.
			return 0, 0, errors.Newf(errors.PartialRemoveFailed,
				"%d of %d objects failed to delete", len(removed.Failures), len(keys))
		}
	}

	ids := make([]int64, 0, len(candidates))
	for _, sub := range candidates {
		ids = append(ids, sub.ID)
	}

	affected, err := d.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.DeleteRowsFailed)
	}

	return int(affected), removed.Deleted, nil
}

// dedupeKeys collects the distinct non-empty object keys of the candidates,
// preserving first-seen order.
func dedupeKeys(candidates []repository.Submission) []string {
	seen := make(map[string]struct{}, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, sub := range candidates {
		if sub.ObjectKey == "" {
			continue
		}
		if _, dup := seen[sub.ObjectKey]; dup {
			continue
		}
		seen[sub.ObjectKey] = struct{}{}
		keys = append(keys, sub.ObjectKey)
	}
	return keys
}
