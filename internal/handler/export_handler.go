package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/internal/utils"
)

// ExportHandler serves the CSV download of the full log table.
type ExportHandler struct {
	export service.ExportService
	logger zerolog.Logger
}

// NewExportHandler constructs the export handler.
func NewExportHandler(export service.ExportService, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		export: export,
		logger: logger.With().Str("component", "export_handler").Logger(),
	}
}

// Register mounts the export routes on the given router group.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/csv", h.CSV)
}

// CSV streams the full log table as a CSV attachment.
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	filename, data, err := h.export.ExportCSV(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("csv export failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "csv export failed")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
