// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EligibilitySearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_searches_total",
			Help: "Eligibility searches by profile source",
		},
		[]string{"profile_source"},
	)

	EligibilitySchemesMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eligibility_schemes_matched",
			Help:    "Number of schemes returned per eligibility search",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	AnalyticsRecordFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_record_failures_total",
			Help: "Analytics events that could not be recorded",
		},
		[]string{"event"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Application status notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)
