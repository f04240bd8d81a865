package service

import (
	"sort"
	"strings"
	"time"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/models"
)

// CountByActivity tallies entries per activity type. Every enumerated
// activity appears in the result even when its count is zero.
func CountByActivity(entries []models.LogEntry) map[string]int {
	counts := make(map[string]int, len(models.ActivityTypes))
	for _, activity := range models.ActivityTypes {
		counts[string(activity)] = 0
	}
	for _, entry := range entries {
		counts[string(entry.ActivityType)]++
	}
	return counts
}

// CountByStatus tallies entries per approval status, zero-filling the
// three lifecycle states.
func CountByStatus(entries []models.LogEntry) map[string]int {
	counts := map[string]int{
		string(models.StatusPending):  0,
		string(models.StatusApproved): 0,
		string(models.StatusRejected): 0,
	}
	for _, entry := range entries {
		counts[string(entry.Status)]++
	}
	return counts
}

// WeeklyTrend buckets submissions by absolute calendar day over the seven
// days ending at now. Two entries a week apart never share a bucket even
// though they fall on the same weekday.
func WeeklyTrend(entries []models.LogEntry, now time.Time) []dto.TrendPoint {
	now = now.In(istZone)

	points := make([]dto.TrendPoint, 0, 7)
	index := make(map[string]int, 7)
	for offset := 6; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		date := day.Format("2006-01-02")
		index[date] = len(points)
		points = append(points, dto.TrendPoint{
			Date: date,
			Day:  day.Format("Mon"),
		})
	}

	for _, entry := range entries {
		date := time.UnixMilli(entry.Timestamp).In(istZone).Format("2006-01-02")
		if i, ok := index[date]; ok {
			points[i].Count++
		}
	}

	return points
}

// Leaderboard ranks authors by submission count, keeping at most limit
// entries. Ties preserve the order authors first appear in the input, so
// the ranking is stable for equal counts.
func Leaderboard(entries []models.LogEntry, limit int) []dto.LeaderboardEntry {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, entry := range entries {
		if _, seen := counts[entry.TeacherName]; !seen {
			order = append(order, entry.TeacherName)
		}
		counts[entry.TeacherName]++
	}

	board := make([]dto.LeaderboardEntry, 0, len(order))
	for _, name := range order {
		board = append(board, dto.LeaderboardEntry{Name: name, Count: counts[name]})
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Count > board[j].Count
	})

	if limit > 0 && len(board) > limit {
		board = board[:limit]
	}
	return board
}

// PeriodLoad tallies entries per normalized period label. Labels collapse
// to their first two whitespace-separated tokens, so "Period 1 (08:00 -
// 09:00)" and a bare "Period 1" count into the same bucket.
func PeriodLoad(entries []models.LogEntry) map[string]int {
	load := make(map[string]int)
	for _, entry := range entries {
		load[normalizePeriod(entry.Period)]++
	}
	return load
}

func normalizePeriod(period string) string {
	tokens := strings.Fields(period)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}
