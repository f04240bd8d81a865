package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/internal/utils"
)

// AnalyticsHandler exposes the reviewer dashboard aggregates.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    zerolog.Logger
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register mounts the analytics routes on the given router group.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/summary", h.Summary)
}

// Summary returns the chart-ready dashboard aggregates.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute analytics summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute analytics summary")
	}
	return utils.SendSuccess(c, "analytics summary", summary)
}
