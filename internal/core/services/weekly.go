package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/core/ports/driven"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

// StatsService builds weekly moving-time summaries from fetched activities.
type StatsService struct {
	source driven.ActivitySource
	cache  driven.ActivityStore
	now    func() time.Time
}

// NewStatsService creates a stats service. cache may be nil to disable the
// local activity cache.
func NewStatsService(source driven.ActivitySource, cache driven.ActivityStore) *StatsService {
	return &StatsService{
		source: source,
		cache:  cache,
		now:    time.Now,
	}
}

// WeeklySummary fetches activities for the trailing number of weeks and
// folds them into per-ISO-week buckets, most recent weeks last.
func (s *StatsService) WeeklySummary(ctx context.Context, weeks int) ([]domain.WeeklyBucket, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("%w: number of weeks must be positive, got %d", domain.ErrInvalidInput, weeks)
	}

	end := s.now()
	activities, err := s.FetchRange(ctx, end.AddDate(0, 0, -7*weeks), end)
	if err != nil {
		return nil, err
	}

	filtered := FilterActivities(activities)
	logger.Info("after filtering: %d activities", len(filtered))

	return LastN(GroupByWeek(filtered), weeks), nil
}

// FetchRange fetches activities in [after, before) from the source and
// writes them through to the local cache.
func (s *StatsService) FetchRange(ctx context.Context, after, before time.Time) ([]domain.Activity, error) {
	logger.Info("fetching activities from %s to %s",
		after.Format("2006-01-02"), before.Format("2006-01-02"))

	activities, err := s.source.ListActivities(ctx, after, before)
	if err != nil {
		return nil, err
	}
	logger.Info("found %d activities", len(activities))

	if s.cache != nil {
		// Write-through; a cache failure must not fail the run
		if err := s.cache.Upsert(ctx, activities); err != nil {
			logger.Warn("caching activities: %v", err)
		}
	}

	return activities, nil
}

// FilterActivities drops strength/resistance sessions; they are tracked
// on Strava but do not count towards weekly moving time.
func FilterActivities(activities []domain.Activity) []domain.Activity {
	filtered := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a.IsExcluded() {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}

// GroupByWeek folds activities into per-ISO-week buckets, keyed by the
// Monday of the week and sorted ascending.
func GroupByWeek(activities []domain.Activity) []domain.WeeklyBucket {
	byWeek := make(map[time.Time]*domain.WeeklyBucket)

	for _, a := range activities {
		week := a.WeekStart()
		bucket, ok := byWeek[week]
		if !ok {
			bucket = &domain.WeeklyBucket{Week: week}
			byWeek[week] = bucket
		}
		bucket.Hours += a.MovingHours()
		bucket.Activities++
	}

	buckets := make([]domain.WeeklyBucket, 0, len(byWeek))
	for _, b := range byWeek {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Week.Before(buckets[j].Week)
	})

	return buckets
}

// LastN keeps the trailing n buckets of an ascending-sorted slice.
func LastN(buckets []domain.WeeklyBucket, n int) []domain.WeeklyBucket {
	if len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}
