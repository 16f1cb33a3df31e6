package service

import (
	"context"
	"sync"

	"dailysketch/internal/retention/repository"
	"dailysketch/pkg/errors"
)

const defaultChunkSize = 25

// EntitlementResolver resolves and caches the premium flag per owner for the
// lifetime of one run. Construct one per run and discard it; the cache is
// never invalidated or persisted.
type EntitlementResolver struct {
	checker   repository.EntitlementChecker
	chunkSize int
	cache     map[string]bool
}

// NewEntitlementResolver creates a resolver with an empty cache.
func NewEntitlementResolver(checker repository.EntitlementChecker, chunkSize int) *EntitlementResolver {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &EntitlementResolver{
		checker:   checker,
		chunkSize: chunkSize,
		cache:     make(map[string]bool),
	}
}

// Resolve populates the cache for every given owner id. Ids already cached
// from a prior page are skipped, so each owner is looked up at most once per
// run. Remaining lookups run in bounded concurrency groups of chunkSize.
// Any single lookup failure is fatal.
func (r *EntitlementResolver) Resolve(ctx context.Context, ownerIDs []string) error {
	seen := make(map[string]struct{}, len(ownerIDs))
	pending := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, cached := r.cache[id]; cached {
			continue
		}
		pending = append(pending, id)
	}

	for start := 0; start < len(pending); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(pending) {
			end = len(pending)
		}
		if err := r.resolveChunk(ctx, pending[start:end]); err != nil {
			return err
		}
	}
	return nil
}

type lookupResult struct {
	ownerID string
	premium bool
	err     error
}

// resolveChunk issues one concurrent lookup per owner and writes results into
// the cache only after all lookups finish, keeping cache writes on the
// control-flow goroutine.
func (r *EntitlementResolver) resolveChunk(ctx context.Context, chunk []string) error {
	results := make([]lookupResult, len(chunk))

	var wg sync.WaitGroup
	for i, ownerID := range chunk {
		wg.Add(1)
		go func(i int, ownerID string) {
			defer wg.Done()
			premium, err := r.checker.IsPremium(ctx, ownerID)
			results[i] = lookupResult{ownerID: ownerID, premium: premium, err: err}
		}(i, ownerID)
	}
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			return errors.EntitlementErr(res.ownerID, res.err)
		}
	}
	for _, res := range results {
		r.cache[res.ownerID] = res.premium
	}
	return nil
}

// IsExempt reports whether the owner is premium (exempt from deletion).
// It must only be called for owners already covered by Resolve.
func (r *EntitlementResolver) IsExempt(ownerID string) (bool, error) {
	premium, ok := r.cache[ownerID]
	if !ok {
		return false, errors.Newf(errors.EntitlementNotCached, "entitlement not resolved for owner %s", ownerID)
	}
	return premium, nil
}

// CachedOwners returns how many owners have been resolved this run.
func (r *EntitlementResolver) CachedOwners() int {
	return len(r.cache)
}
