// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafidhoque/boighor/internal/platform/constants"
)

// # Snapshot Limits

const (
	topCategoriesLimit = 5
	trendingBooksLimit = 10
)

// # Service Layer

// Service assembles and caches the monthly snapshot.
type Service struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewService constructs a new stats [Service]. cache may be nil, in which
// case every request recomputes.
func NewService(repo Repository, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

/*
Monthly returns the current month's snapshot.

Description: The snapshot is served from Redis when a fresh copy exists for
this calendar month; otherwise it is assembled from the book collection and
cached with a short TTL. Cache failures degrade to a direct computation and
are logged, never surfaced.

Returns:
  - *Snapshot: The assembled or cached snapshot
  - error: System level errors from the aggregate queries
*/
func (service *Service) Monthly(context context.Context) (*Snapshot, error) {
	now := service.now()
	cacheKey := constants.RedisPrefixMonthlyStats + now.Format("2006-01")

	if cached := service.fromCache(context, cacheKey); cached != nil {
		return cached, nil
	}

	snapshot, err := service.assemble(context, now)
	if err != nil {
		return nil, err
	}

	service.toCache(context, cacheKey, snapshot)
	return snapshot, nil
}

// assemble runs the aggregate queries for the month containing now.
func (service *Service) assemble(context context.Context, now time.Time) (*Snapshot, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	statistics, err := service.repo.Overview(context, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	lastMonthCount, err := service.repo.CreatedInWindow(context, lastMonthStart, monthStart)
	if err != nil {
		return nil, err
	}
	statistics.GrowthRate = growthRate(statistics.TotalThisMonth, lastMonthCount)

	topCategories, err := service.repo.TopCategories(context, monthStart, monthEnd, topCategoriesLimit)
	if err != nil {
		return nil, err
	}

	trendingBooks, err := service.repo.TrendingBooks(context, monthStart, monthEnd, trendingBooksLimit)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		CurrentMonth:  now.Format("January 2006"),
		Statistics:    statistics,
		TopCategories: topCategories,
		TrendingBooks: trendingBooks,
		Timeframe: Timeframe{
			Start: monthStart,
			End:   monthEnd.Add(-time.Second),
		},
	}, nil
}

// growthRate compares this month's new titles to last month's as a
// percentage rounded to one decimal. A silent prior month reads as 100.
func growthRate(thisMonth, lastMonth int) float64 {
	if lastMonth == 0 {
		return 100
	}
	rate := float64(thisMonth-lastMonth) / float64(lastMonth) * 100
	return math.Round(rate*10) / 10
}

// # Cache

func (service *Service) fromCache(context context.Context, key string) *Snapshot {
	if service.cache == nil {
		return nil
	}

	raw, err := service.cache.Get(context, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			service.logger.Warn("stats_cache_read_failed", slog.Any("error", err))
		}
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		service.logger.Warn("stats_cache_decode_failed", slog.Any("error", err))
		return nil
	}
	return &snapshot
}

func (service *Service) toCache(context context.Context, key string, snapshot *Snapshot) {
	if service.cache == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := service.cache.Set(context, key, raw, constants.MonthlyStatsTTL).Err(); err != nil {
		service.logger.Warn("stats_cache_write_failed", slog.Any("error", err))
	}
}
