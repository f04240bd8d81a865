package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/observability"
	"github.com/staffroom/logbook-api/internal/repository"
	"github.com/staffroom/logbook-api/pkg/ai"
)

// Fixed responses for the non-happy summary paths. The endpoint never
// fails outright; a broken or absent model degrades to a static message.
const (
	summaryNotConfigured = "AI summaries are not configured for this workspace."
	summaryNoLogs        = "No logs have been submitted today to analyze."
	summaryUnavailable   = "The AI summary is temporarily unavailable. Please try again later."
)

// SummaryService produces the principal's daily AI digest.
type SummaryService interface {
	DailySummary(ctx context.Context) (string, error)
}

type summaryService struct {
	repo       repository.LogRepository
	summarizer ai.Summarizer
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSummaryService constructs the daily summary service. A nil summarizer
// is valid and reports the unconfigured message.
func NewSummaryService(repo repository.LogRepository, summarizer ai.Summarizer, logger zerolog.Logger) SummaryService {
	return &summaryService{
		repo:       repo,
		summarizer: summarizer,
		logger:     logger.With().Str("component", "summary_service").Logger(),
		now:        time.Now,
	}
}

// DailySummary summarizes today's submissions. Only entries dated today
// (IST) feed the model.
func (s *summaryService) DailySummary(ctx context.Context) (string, error) {
	if s.summarizer == nil {
		observability.SummaryRequests().WithLabelValues("unconfigured").Inc()
		return summaryNotConfigured, nil
	}

	today := s.now().In(istZone).Format("2006-01-02")
	entries, err := s.repo.List(ctx, repository.LogFilter{DateFrom: today, DateTo: today})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load today's entries")
		observability.SummaryRequests().WithLabelValues("error").Inc()
		return "", err
	}

	if len(entries) == 0 {
		observability.SummaryRequests().WithLabelValues("empty").Inc()
		return summaryNoLogs, nil
	}

	digest := make([]ai.DigestEntry, 0, len(entries))
	for _, entry := range entries {
		digest = append(digest, ai.DigestEntry{
			TeacherName:  entry.TeacherName,
			ActivityType: string(entry.ActivityType),
			Description:  entry.Description,
		})
	}

	summary, err := s.summarizer.Summarize(ctx, digest)
	if err != nil {
		// Degrade instead of failing; the dashboard still renders.
		s.logger.Warn().Err(err).Msg("summarizer call failed")
		observability.SummaryRequests().WithLabelValues("degraded").Inc()
		return summaryUnavailable, nil
	}

	observability.SummaryRequests().WithLabelValues("ok").Inc()
	return summary, nil
}
