package service

import (
	"context"
	"time"

	"dailysketch/internal/seed/repository"
	"dailysketch/pkg/errors"
	"dailysketch/pkg/utils/logger"

	"go.uber.org/zap"
)

// DefaultTiers are the difficulty tiers seeded every day.
var DefaultTiers = []string{"easy", "medium", "hard"}

// PromptSeeder ensures the next day's prompt exists for every difficulty
// tier. The insert is idempotent, so overlapping or repeated runs are safe.
type PromptSeeder struct {
	repo  repository.PromptRepository
	tiers []string
	now   func() time.Time
}

// NewPromptSeeder creates a seeder.
func NewPromptSeeder(repo repository.PromptRepository, tiers []string, now func() time.Time) *PromptSeeder {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	if now == nil {
		now = time.Now
	}
	return &PromptSeeder{repo: repo, tiers: tiers, now: now}
}

// Seed ensures tomorrow's prompts exist and returns how many were inserted.
// A tier whose idea pool is empty is a fatal error: the day would otherwise
// silently have no prompt.
func (s *PromptSeeder) Seed(ctx context.Context) (int, error) {
	y, m, d := s.now().UTC().Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	inserted := 0
	for _, tier := range s.tiers {
		ok, err := s.repo.EnsureDaily(ctx, date, tier)
		if err != nil {
			return inserted, errors.Wrap(err, errors.SeedError).WithDetail("tier", tier)
		}
		if ok {
			inserted++
			continue
		}

		// Nothing inserted: either already seeded or the idea pool is empty.
		exists, err := s.repo.HasDaily(ctx, date, tier)
		if err != nil {
			return inserted, errors.Wrap(err, errors.SeedError).WithDetail("tier", tier)
		}
		if !exists {
			return inserted, errors.Newf(errors.SeedIdeasMissing,
				"no prompt ideas available for tier %s", tier)
		}
	}

	logger.Info(ctx, "prompt seeding finished",
		zap.Time("date", date),
		zap.Int("inserted", inserted),
		zap.Int("tiers", len(s.tiers)),
	)
	return inserted, nil
}
