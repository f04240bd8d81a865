package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/observability"
	"github.com/staffroom/logbook-api/internal/repository"
)

// Lifecycle errors surfaced to callers.
var (
	ErrLogNotFound      = errors.New("log entry not found")
	ErrForbidden        = errors.New("operation not permitted for this role")
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrInvalidPeriod    = errors.New("period is not in the allowed set")
	ErrInvalidActivity  = errors.New("activity type is not in the allowed set")
	ErrInvalidStatus    = errors.New("status must be APPROVED or REJECTED")
	ErrFeedbackRequired = errors.New("feedback is required when rejecting")
	ErrTerminalState    = errors.New("log entry has already been reviewed")
	ErrNotTerminal      = errors.New("only reviewed entries can be reopened")
)

// NATS subjects for log lifecycle events.
const (
	subjectLogSubmitted = "logbook.logs.submitted"
	subjectLogReviewed  = "logbook.logs.reviewed"
)

// istZone matches the fixed reporting timezone used across the workspace.
var istZone = time.FixedZone("IST", 5*3600+30*60)

// Actor is the authenticated user performing a lifecycle operation.
type Actor struct {
	ID   string
	Name string
	Role models.Role
}

// LogService governs the activity-log lifecycle: submission, review
// transitions, reopening and role-gated listing.
type LogService interface {
	Submit(ctx context.Context, actor Actor, req dto.LogSubmitRequest) (dto.LogResponse, error)
	Transition(ctx context.Context, actor Actor, logID string, req dto.LogStatusUpdateRequest) (dto.LogResponse, error)
	Reopen(ctx context.Context, actor Actor, logID string) (dto.LogResponse, error)
	List(ctx context.Context, actor Actor, req dto.LogListRequest) ([]dto.LogResponse, error)
}

type logService struct {
	repo      repository.LogRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	cache     *redis.Client
	nats      *nats.Conn
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewLogService constructs the log lifecycle service. The redis client and
// NATS connection may be nil; caching and event fan-out are then skipped.
func NewLogService(repo repository.LogRepository, validate *validator.Validate, cache *redis.Client, natsConn *nats.Conn, logger zerolog.Logger) LogService {
	return &logService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		cache:     cache,
		nats:      natsConn,
		logger:    logger.With().Str("component", "log_service").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *logService) Submit(ctx context.Context, actor Actor, req dto.LogSubmitRequest) (dto.LogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LogResponse{}, err
	}

	if actor.Role.IsReviewer() {
		return dto.LogResponse{}, ErrForbidden
	}
	if !models.ValidPeriod(req.Period) {
		return dto.LogResponse{}, ErrInvalidPeriod
	}

	activity := models.ActivityType(req.ActivityType)
	if !activity.Valid() {
		return dto.LogResponse{}, ErrInvalidActivity
	}

	description := strings.TrimSpace(s.sanitizer.Sanitize(req.Description))
	if description == "" {
		return dto.LogResponse{}, ErrEmptyDescription
	}

	now := s.now()
	entry := models.LogEntry{
		ID:           s.newID(),
		TeacherID:    actor.ID,
		TeacherName:  actor.Name,
		Date:         now.In(istZone).Format("2006-01-02"),
		Period:       req.Period,
		ActivityType: activity,
		Description:  description,
		Status:       models.StatusPending,
		Timestamp:    now.UnixMilli(),
	}

	// Persist before reflecting anything locally so a store failure never
	// leaves the caller's view ahead of the table.
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist log entry")
		return dto.LogResponse{}, err
	}

	observability.LogsSubmitted().WithLabelValues(string(activity)).Inc()
	s.invalidateAnalytics(ctx)

	response := dto.NewLogResponse(entry)
	s.publish(subjectLogSubmitted, response)
	return response, nil
}

func (s *logService) Transition(ctx context.Context, actor Actor, logID string, req dto.LogStatusUpdateRequest) (dto.LogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LogResponse{}, err
	}

	if !actor.Role.IsReviewer() {
		return dto.LogResponse{}, ErrForbidden
	}

	status := models.ApprovalStatus(req.Status)
	if status != models.StatusApproved && status != models.StatusRejected {
		return dto.LogResponse{}, ErrInvalidStatus
	}

	feedback := strings.TrimSpace(req.Feedback)
	if status == models.StatusRejected && feedback == "" {
		return dto.LogResponse{}, ErrFeedbackRequired
	}

	entry, err := s.repo.Get(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.LogResponse{}, ErrLogNotFound
		}
		return dto.LogResponse{}, err
	}

	if entry.Status.Terminal() {
		return dto.LogResponse{}, ErrTerminalState
	}

	var feedbackUpdate *string
	if feedback != "" {
		feedbackUpdate = &feedback
	}

	if err := s.repo.UpdateStatus(ctx, logID, status, feedbackUpdate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.LogResponse{}, ErrLogNotFound
		}
		s.logger.Error().Err(err).Str("log_id", logID).Msg("failed to persist status transition")
		return dto.LogResponse{}, err
	}

	entry.Status = status
	if feedbackUpdate != nil {
		entry.Feedback = *feedbackUpdate
	}

	observability.LogReviews().WithLabelValues(string(status)).Inc()
	s.invalidateAnalytics(ctx)

	response := dto.NewLogResponse(entry)
	s.publish(subjectLogReviewed, response)
	return response, nil
}

// Reopen moves a reviewed entry back to PENDING. It is the explicit
// correction path; terminal entries cannot be transitioned directly.
func (s *logService) Reopen(ctx context.Context, actor Actor, logID string) (dto.LogResponse, error) {
	if !actor.Role.IsReviewer() {
		return dto.LogResponse{}, ErrForbidden
	}

	entry, err := s.repo.Get(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.LogResponse{}, ErrLogNotFound
		}
		return dto.LogResponse{}, err
	}

	if !entry.Status.Terminal() {
		return dto.LogResponse{}, ErrNotTerminal
	}

	if err := s.repo.UpdateStatus(ctx, logID, models.StatusPending, nil); err != nil {
		s.logger.Error().Err(err).Str("log_id", logID).Msg("failed to reopen log entry")
		return dto.LogResponse{}, err
	}

	entry.Status = models.StatusPending
	s.invalidateAnalytics(ctx)

	return dto.NewLogResponse(entry), nil
}

func (s *logService) List(ctx context.Context, actor Actor, req dto.LogListRequest) ([]dto.LogResponse, error) {
	filter := repository.LogFilter{}

	if actor.Role.IsReviewer() {
		if req.Status != "" {
			status := models.ApprovalStatus(req.Status)
			if !status.Valid() {
				return nil, ErrInvalidStatus
			}
			filter.Status = status
		}
		filter.DateFrom = strings.TrimSpace(req.DateFrom)
		filter.DateTo = strings.TrimSpace(req.DateTo)
	} else {
		// Non-reviewers only ever see their own submissions.
		filter.TeacherID = actor.ID
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list log entries")
		return nil, err
	}

	return dto.NewLogResponseSlice(entries), nil
}

func (s *logService) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, analyticsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate analytics cache")
	}
}

func (s *logService) publish(subject string, response dto.LogResponse) {
	if s.nats == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode log event")
		return
	}
	if err := s.nats.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish log event")
	}
}
