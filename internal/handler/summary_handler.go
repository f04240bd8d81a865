package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/internal/utils"
)

// SummaryHandler serves the principal's daily AI digest.
type SummaryHandler struct {
	summary service.SummaryService
	logger  zerolog.Logger
}

// NewSummaryHandler constructs the summary handler.
func NewSummaryHandler(summary service.SummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		summary: summary,
		logger:  logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register mounts the summary routes on the given router group.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("/daily", h.Daily)
}

// Daily returns the AI synopsis of today's submissions.
func (h *SummaryHandler) Daily(c *fiber.Ctx) error {
	text, err := h.summary.DailySummary(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("daily summary failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "daily summary failed")
	}
	return utils.SendSuccess(c, "daily summary", fiber.Map{"summary": text})
}
