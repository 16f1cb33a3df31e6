package storage

import (
	"context"
)

// ObjectStorage defines minimal object storage operations required by the
// retention job. It is intentionally small so we can swap MinIO/AWS-S3
// implementations without touching business logic.
type ObjectStorage interface {
	// RemoveObjects issues one batch delete for the given keys.
	// The result enumerates per-key failures; an empty Failures slice
	// means full success. An empty key slice is a no-op.
	RemoveObjects(ctx context.Context, bucket string, keys []string) (RemoveResult, error)

	// BucketExists reports whether the bucket is reachable and present.
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// RemoveResult summarizes one batch delete request.
type RemoveResult struct {
	// Deleted is the number of keys actually removed.
	Deleted int

	// Failures lists keys the backend refused to delete.
	Failures []KeyFailure
}

// KeyFailure describes one key that failed to delete in a batch.
type KeyFailure struct {
	Key     string
	Message string
}
