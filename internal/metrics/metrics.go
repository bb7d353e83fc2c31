package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for sheetbridge
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Sync Metrics
	SyncRunsTotal        *prometheus.CounterVec
	SyncRunDuration      *prometheus.HistogramVec
	RecordsUpsertedTotal prometheus.Counter
	RecordsSkippedTotal  prometheus.Counter
	UpsertRetriesTotal   prometheus.Counter
}

// NewRegistry initializes and returns a new Registry with all metrics
func NewRegistry() *Registry {
	return &Registry{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sheetbridge_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sheetbridge_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sheetbridge_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		SyncRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sheetbridge_sync_runs_total",
				Help: "Total sync runs by event and final status",
			},
			[]string{"event", "status"},
		),
		SyncRunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sheetbridge_sync_run_duration_seconds",
				Help:    "Sync run wall-clock duration in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"event"},
		),
		RecordsUpsertedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sheetbridge_records_upserted_total",
				Help: "Total production records upserted to the dashboard",
			},
		),
		RecordsSkippedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sheetbridge_records_skipped_total",
				Help: "Total sheet rows skipped during parsing",
			},
		),
		UpsertRetriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sheetbridge_upsert_retries_total",
				Help: "Total retried upsert batch attempts",
			},
		),
	}
}
