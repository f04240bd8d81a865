package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	errorsTotal           *prometheus.CounterVec
	logsSubmittedTotal    *prometheus.CounterVec
	logReviewsTotal       *prometheus.CounterVec
	csvExportsTotal       prometheus.Counter
	summaryRequestsTotal  *prometheus.CounterVec
	analyticsCacheHits    prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the logbook API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logbook_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logbook_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logbook_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		logsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logbook_logs_submitted_total",
			Help: "Activity log submissions by activity type.",
		}, []string{"activity_type"})

		logReviewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logbook_log_reviews_total",
			Help: "Reviewer decisions by resulting status.",
		}, []string{"status"})

		csvExportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logbook_csv_exports_total",
			Help: "CSV export downloads served.",
		})

		summaryRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logbook_ai_summary_requests_total",
			Help: "AI daily-summary requests by outcome.",
		}, []string{"outcome"})

		analyticsCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logbook_analytics_cache_hits_total",
			Help: "Analytics summaries served from cache.",
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			logsSubmittedTotal,
			logReviewsTotal,
			csvExportsTotal,
			summaryRequestsTotal,
			analyticsCacheHits,
		)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// LogsSubmitted exposes the submission counter.
func LogsSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return logsSubmittedTotal
}

// LogReviews exposes the reviewer decision counter.
func LogReviews() *prometheus.CounterVec {
	RegisterMetrics()
	return logReviewsTotal
}

// CSVExports exposes the export counter.
func CSVExports() prometheus.Counter {
	RegisterMetrics()
	return csvExportsTotal
}

// SummaryRequests exposes the AI summary counter.
func SummaryRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return summaryRequestsTotal
}

// AnalyticsCacheHits exposes the analytics cache-hit counter.
func AnalyticsCacheHits() prometheus.Counter {
	RegisterMetrics()
	return analyticsCacheHits
}
