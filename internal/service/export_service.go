package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/observability"
	"github.com/staffroom/logbook-api/internal/repository"
)

// csvHeader is the fixed export header. Column order is part of the
// contract consumed by the principal's spreadsheet templates.
const csvHeader = "ID,Date,Teacher,Period,Activity,Description,Status,Feedback"

// csvTimeLayout renders timestamps the way the dashboard shows them,
// fixed to Indian Standard Time regardless of server locale.
const csvTimeLayout = "02/01/2006, 3:04:05 pm"

// ExportService renders the complete log table as a CSV document.
type ExportService interface {
	ExportCSV(ctx context.Context) (filename string, data []byte, err error)
}

type exportService struct {
	repo   repository.LogRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewExportService constructs the CSV export service.
func NewExportService(repo repository.LogRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger.With().Str("component", "export_service").Logger(),
		now:    time.Now,
	}
}

// ExportCSV serializes every log entry, newest first, into a CSV document.
// The same table always yields byte-identical output.
func (s *exportService) ExportCSV(ctx context.Context) (string, []byte, error) {
	entries, err := s.repo.List(ctx, repository.LogFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load entries for export")
		return "", nil, err
	}

	observability.CSVExports().Inc()

	filename := "school_logs_" + s.now().In(istZone).Format("2006-01-02") + ".csv"
	return filename, renderCSV(entries), nil
}

// renderCSV builds the document by hand: every field is double-quoted
// unconditionally, with embedded quotes doubled. Descriptions and feedback
// routinely carry commas and quotes, and downstream consumers rely on the
// uniform quoting.
func renderCSV(entries []models.LogEntry) []byte {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")

	for _, entry := range entries {
		date := time.UnixMilli(entry.Timestamp).In(istZone).Format(csvTimeLayout)
		fields := []string{
			entry.ID,
			date,
			entry.TeacherName,
			entry.Period,
			string(entry.ActivityType),
			entry.Description,
			string(entry.Status),
			entry.Feedback,
		}
		for i, field := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(quoteCSVField(field))
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}

func quoteCSVField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
