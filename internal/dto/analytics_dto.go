package dto

import "time"

// TrendPoint is one day of the trailing-7-day submission trend. Date is
// the absolute calendar day the counts were bucketed by; Day is its short
// weekday label for chart axes.
type TrendPoint struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// LeaderboardEntry ranks one author by submitted log count.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsSummaryResponse bundles the chart-ready aggregates for the
// reviewer dashboard.
type AnalyticsSummaryResponse struct {
	TotalLogs   int                `json:"total_logs"`
	ByActivity  map[string]int     `json:"by_activity"`
	ByStatus    map[string]int     `json:"by_status"`
	WeeklyTrend []TrendPoint       `json:"weekly_trend"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	PeriodLoad  map[string]int     `json:"period_load"`
	GeneratedAt time.Time          `json:"generated_at"`
	CacheHit    bool               `json:"cache_hit"`
}
