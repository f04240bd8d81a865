package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/internal/utils"
)

// LogHandler exposes the activity-log lifecycle endpoints.
type LogHandler struct {
	logs     service.LogService
	profiles service.ProfileService
	logger   zerolog.Logger
}

// NewLogHandler constructs the log handler.
func NewLogHandler(logs service.LogService, profiles service.ProfileService, logger zerolog.Logger) *LogHandler {
	return &LogHandler{
		logs:     logs,
		profiles: profiles,
		logger:   logger.With().Str("component", "log_handler").Logger(),
	}
}

// Register mounts the log routes on the given router group. Review routes
// are additionally gated to the PRINCIPAL role by the router.
func (h *LogHandler) Register(router fiber.Router, reviewerOnly fiber.Handler) {
	router.Post("/", h.Submit)
	router.Get("/", h.List)
	router.Patch("/:id/status", reviewerOnly, h.UpdateStatus)
	router.Post("/:id/reopen", reviewerOnly, h.Reopen)
}

// Submit files a new activity log for the authenticated teacher.
func (h *LogHandler) Submit(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var req dto.LogSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// The author's display name is denormalized onto the entry at
	// submission time.
	profile, err := h.profiles.Get(c.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusUnauthorized, "profile not found")
		}
		h.logger.Error().Err(err).Msg("failed to resolve submitter profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit log")
	}
	actor.Name = profile.Name

	entry, err := h.logs.Submit(c.Context(), actor, req)
	if err != nil {
		return h.sendLogError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "log submitted", entry)
}

// List returns the caller's visible log entries: their own for teachers,
// the full filterable table for principals.
func (h *LogHandler) List(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	req := dto.LogListRequest{
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	entries, err := h.logs.List(c.Context(), actor, req)
	if err != nil {
		return h.sendLogError(c, err)
	}
	return utils.SendSuccess(c, "logs retrieved", entries)
}

// UpdateStatus applies a reviewer decision to a pending entry.
func (h *LogHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var req dto.LogStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.logs.Transition(c.Context(), actor, c.Params("id"), req)
	if err != nil {
		return h.sendLogError(c, err)
	}
	return utils.SendSuccess(c, "log status updated", entry)
}

// Reopen moves a reviewed entry back to pending for re-review.
func (h *LogHandler) Reopen(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	entry, err := h.logs.Reopen(c.Context(), actor, c.Params("id"))
	if err != nil {
		return h.sendLogError(c, err)
	}
	return utils.SendSuccess(c, "log reopened", entry)
}

func (h *LogHandler) sendLogError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+err.Error())
	case errors.Is(err, service.ErrLogNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "log entry not found")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "operation not permitted for this role")
	case errors.Is(err, service.ErrTerminalState):
		return utils.SendError(c, fiber.StatusConflict, "log entry has already been reviewed")
	case errors.Is(err, service.ErrNotTerminal):
		return utils.SendError(c, fiber.StatusConflict, "only reviewed entries can be reopened")
	case errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidActivity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrFeedbackRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	h.logger.Error().Err(err).Msg("log operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "log operation failed")
}
