package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/observability"
	"github.com/staffroom/logbook-api/internal/repository"
)

const (
	analyticsCacheKey = "analytics:summary"
	leaderboardSize   = 5
)

// AnalyticsService produces the reviewer dashboard aggregates.
type AnalyticsService interface {
	Summary(ctx context.Context) (dto.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	repo     repository.LogRepository
	cache    *redis.Client
	cacheTTL time.Duration
	tracer   trace.Tracer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService constructs the analytics service. A nil cache client
// disables the cache-aside path; every call then recomputes from the store.
func NewAnalyticsService(repo repository.LogRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		tracer:   otel.Tracer("github.com/staffroom/logbook-api/internal/service/analytics"),
		logger:   logger.With().Str("component", "analytics_service").Logger(),
		now:      time.Now,
	}
}

// Summary returns the full dashboard payload, served from cache when a
// fresh copy exists.
func (s *analyticsService) Summary(ctx context.Context) (dto.AnalyticsSummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.summary")
	defer span.End()

	if cached, ok := s.fromCache(ctx); ok {
		observability.AnalyticsCacheHits().Inc()
		span.SetAttributes(attribute.Bool("cache_hit", true))
		cached.CacheHit = true
		return cached, nil
	}

	entries, err := s.repo.List(ctx, repository.LogFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load entries for analytics")
		return dto.AnalyticsSummaryResponse{}, err
	}

	now := s.now()
	summary := dto.AnalyticsSummaryResponse{
		TotalLogs:   len(entries),
		ByActivity:  CountByActivity(entries),
		ByStatus:    CountByStatus(entries),
		WeeklyTrend: WeeklyTrend(entries, now),
		Leaderboard: Leaderboard(entries, leaderboardSize),
		PeriodLoad:  PeriodLoad(entries),
		GeneratedAt: now.UTC(),
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Int("total_logs", summary.TotalLogs),
	)

	s.store(ctx, summary)
	return summary, nil
}

func (s *analyticsService) fromCache(ctx context.Context) (dto.AnalyticsSummaryResponse, bool) {
	if s.cache == nil {
		return dto.AnalyticsSummaryResponse{}, false
	}

	payload, err := s.cache.Get(ctx, analyticsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("analytics cache read failed")
		}
		return dto.AnalyticsSummaryResponse{}, false
	}

	var summary dto.AnalyticsSummaryResponse
	if err := json.Unmarshal(payload, &summary); err != nil {
		s.logger.Warn().Err(err).Msg("analytics cache payload corrupt")
		return dto.AnalyticsSummaryResponse{}, false
	}
	return summary, true
}

func (s *analyticsService) store(ctx context.Context, summary dto.AnalyticsSummaryResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode analytics summary")
		return
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("analytics cache write failed")
	}
}
