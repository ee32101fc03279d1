package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: outcome={success,failure}
	PipelineRunning prometheus.Gauge
	RunDuration     prometheus.Histogram

	RowsSeen          *prometheus.CounterVec // labels: variant
	RowsRejected      *prometheus.CounterVec // labels: variant, reason
	EventsInserted    *prometheus.CounterVec // labels: variant
	DuplicatesSkipped *prometheus.CounterVec // labels: variant
	StoreErrors       *prometheus.CounterVec // labels: variant
	EventsAnnounced   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.PipelineRunning,
		m.RunDuration,
		m.RowsSeen,
		m.RowsRejected,
		m.EventsInserted,
		m.DuplicatesSkipped,
		m.StoreErrors,
		m.EventsAnnounced,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "runs_total",
			Help:      "Completed ingestion runs by outcome.",
		}, []string{"outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_etl",
			Name:      "pipeline_running",
			Help:      "1 while an ingestion run is in flight.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-decode-normalize-upsert run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RowsSeen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "rows_seen_total",
			Help:      "Raw rows decoded from source listings.",
		}, []string{"variant"}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "rows_rejected_total",
			Help:      "Rows dropped during normalization by rejection reason.",
		}, []string{"variant", "reason"}),
		EventsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "events_inserted_total",
			Help:      "Events newly persisted by the store.",
		}, []string{"variant"}),
		DuplicatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "duplicates_skipped_total",
			Help:      "Candidate events discarded as already stored.",
		}, []string{"variant"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "store_errors_total",
			Help:      "Per-event store failures that were skipped.",
		}, []string{"variant"}),
		EventsAnnounced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "events_announced_total",
			Help:      "Inserted events published to the announce topic.",
		}),
	}
}
