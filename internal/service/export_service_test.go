package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/staffroom/logbook-api/internal/models"
)

func TestExportCSVHeaderAndQuoting(t *testing.T) {
	repo := newMemoryLogRepo()
	ts := time.Date(2026, 9, 1, 14, 5, 9, 0, istZone)

	entry := models.LogEntry{
		ID:           "log-1",
		TeacherID:    "t1",
		TeacherName:  `Asha "Ma'am" Verma`,
		Date:         "2026-09-01",
		Period:       models.Periods[0],
		ActivityType: models.ActivityClass,
		Description:  "Covered fractions, decimals, and percentages",
		Status:       models.StatusApproved,
		Feedback:     "Good coverage",
		Timestamp:    ts.UnixMilli(),
	}
	require.NoError(t, repo.Create(context.Background(), entry))

	svc := NewExportService(repo, zerolog.Nop()).(*exportService)
	svc.now = func() time.Time { return ts }

	filename, data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	require.Equal(t, "school_logs_2026-09-01.csv", filename)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "ID,Date,Teacher,Period,Activity,Description,Status,Feedback", lines[0])

	// Every field double-quoted, internal quotes doubled, timestamp
	// rendered in IST.
	require.Equal(t,
		`"log-1","01/09/2026, 2:05:09 pm","Asha ""Ma'am"" Verma","Period 1 (08:00 - 09:00)","Class","Covered fractions, decimals, and percentages","APPROVED","Good coverage"`,
		lines[1])

	// The quoting stays machine-readable.
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, `Asha "Ma'am" Verma`, records[1][2])
	require.Equal(t, "Covered fractions, decimals, and percentages", records[1][5])
}

func TestExportCSVDeterministic(t *testing.T) {
	repo := newMemoryLogRepo()
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, istZone)

	for i, name := range []string{"Asha", "Meera", "Ravi"} {
		entry := entryFor(name, models.ActivityClass, models.StatusPending, models.Periods[i], base.Add(time.Duration(i)*time.Hour))
		entry.ID = name
		entry.Date = "2026-09-01"
		require.NoError(t, repo.Create(context.Background(), entry))
	}

	svc := NewExportService(repo, zerolog.Nop()).(*exportService)
	svc.now = func() time.Time { return base }

	_, first, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	_, second, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)

	// Rows follow the listing order: newest first.
	lines := strings.Split(strings.TrimRight(string(first), "\n"), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[1], `"Ravi"`))
	require.True(t, strings.HasPrefix(lines[3], `"Asha"`))
}

func TestExportCSVEmptyTable(t *testing.T) {
	svc := NewExportService(newMemoryLogRepo(), zerolog.Nop())

	_, data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ID,Date,Teacher,Period,Activity,Description,Status,Feedback\n", string(data))
}
