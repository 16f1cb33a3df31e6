package repository_test

import (
	"context"
	"testing"
	"time"

	"dailysketch/internal/retention/repository"
)

func TestFetchExpiredRejectsNonPositiveLimit(t *testing.T) {
	repo := repository.NewSubmissionRepository(&fakeDB{})

	if _, err := repo.FetchExpired(context.Background(), time.Now(), 0, 0); err == nil {
		t.Error("expected error for zero limit, got nil")
	}
}

func TestDeleteByIDsEmptySetIsNoOp(t *testing.T) {
	database := &fakeDB{}
	repo := repository.NewSubmissionRepository(database)

	deleted, err := repo.DeleteByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("DeleteByIDs() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
	if len(database.queries) != 0 {
		t.Errorf("queries issued = %d, want 0", len(database.queries))
	}
}
