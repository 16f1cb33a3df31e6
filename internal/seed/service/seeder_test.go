package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dailysketch/internal/seed/service"
	pkgerrors "dailysketch/pkg/errors"
)

type fakePromptRepo struct {
	seeded  map[string]bool // "date|tier" -> exists
	ideas   map[string]bool // tier -> pool non-empty
	ensures []string
}

func newFakePromptRepo(ideas map[string]bool) *fakePromptRepo {
	return &fakePromptRepo{
		seeded: map[string]bool{},
		ideas:  ideas,
	}
}

func key(date time.Time, tier string) string {
	return date.Format("2006-01-02") + "|" + tier
}

func (r *fakePromptRepo) EnsureDaily(ctx context.Context, date time.Time, tier string) (bool, error) {
	r.ensures = append(r.ensures, key(date, tier))
	if r.seeded[key(date, tier)] {
		return false, nil
	}
	if !r.ideas[tier] {
		return false, nil
	}
	r.seeded[key(date, tier)] = true
	return true, nil
}

func (r *fakePromptRepo) HasDaily(ctx context.Context, date time.Time, tier string) (bool, error) {
	return r.seeded[key(date, tier)], nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 10, 23, 50, 0, 0, time.UTC)
}

func TestSeedInsertsAllTiers(t *testing.T) {
	repo := newFakePromptRepo(map[string]bool{"easy": true, "medium": true, "hard": true})
	seeder := service.NewPromptSeeder(repo, nil, fixedClock)

	inserted, err := seeder.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if inserted != 3 {
		t.Errorf("inserted = %d, want 3", inserted)
	}

	wantDate := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	for _, tier := range service.DefaultTiers {
		if !repo.seeded[key(wantDate, tier)] {
			t.Errorf("tier %s not seeded for %s", tier, wantDate.Format("2006-01-02"))
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newFakePromptRepo(map[string]bool{"easy": true, "medium": true, "hard": true})
	seeder := service.NewPromptSeeder(repo, nil, fixedClock)

	if _, err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}
	inserted, err := seeder.Seed(context.Background())
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("second run inserted = %d, want 0", inserted)
	}
}

func TestSeedFailsWhenIdeaPoolEmpty(t *testing.T) {
	repo := newFakePromptRepo(map[string]bool{"easy": true, "medium": true})
	seeder := service.NewPromptSeeder(repo, nil, fixedClock)

	_, err := seeder.Seed(context.Background())
	if err == nil {
		t.Fatal("Seed() expected error for empty hard pool, got nil")
	}
	if !pkgerrors.Is(err, pkgerrors.SeedIdeasMissing) {
		t.Errorf("error code = %v, want SeedIdeasMissing", pkgerrors.GetCode(err))
	}
}

type erroringPromptRepo struct{}

func (erroringPromptRepo) EnsureDaily(ctx context.Context, date time.Time, tier string) (bool, error) {
	return false, errors.New("connection reset")
}

func (erroringPromptRepo) HasDaily(ctx context.Context, date time.Time, tier string) (bool, error) {
	return false, nil
}

func TestSeedWrapsRepositoryErrors(t *testing.T) {
	seeder := service.NewPromptSeeder(erroringPromptRepo{}, []string{"easy"}, fixedClock)

	_, err := seeder.Seed(context.Background())
	if err == nil {
		t.Fatal("Seed() expected error, got nil")
	}
	if !pkgerrors.Is(err, pkgerrors.SeedError) {
		t.Errorf("error code = %v, want SeedError", pkgerrors.GetCode(err))
	}
}
