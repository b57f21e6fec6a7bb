package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the analytics service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	aggregationDuration *prometheus.HistogramVec
	sourceErrors        *prometheus.CounterVec
	skippedRecords      *prometheus.CounterVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	exportsTotal        *prometheus.CounterVec
	refreshesTotal      *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		aggregationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analytics_aggregation_duration_seconds",
				Help:    "Duration of aggregation operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		sourceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_source_errors_total",
				Help: "Total fetch errors per external source.",
			},
			[]string{"source"},
		),
		skippedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_skipped_records_total",
				Help: "Transactions excluded from aggregation for malformed timestamps or missing actors.",
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_exports_total",
				Help: "Total CSV exports produced, per report.",
			},
			[]string{"report"},
		),
		refreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_refreshes_total",
				Help: "Total snapshot refreshes.",
			},
			[]string{"status"},
		),
	}
}

// RecordAggregationDuration records the duration of an aggregation operation.
func (m *Metrics) RecordAggregationDuration(operation string, d time.Duration) {
	m.aggregationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrSourceError increments the fetch error counter for a source.
func (m *Metrics) IncrSourceError(source string) {
	m.sourceErrors.WithLabelValues(source).Inc()
}

// AddSkippedRecords adds to the skipped-record counter for an operation.
func (m *Metrics) AddSkippedRecords(operation string, n int) {
	if n > 0 {
		m.skippedRecords.WithLabelValues(operation).Add(float64(n))
	}
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrExport increments the export counter for a report.
func (m *Metrics) IncrExport(report string) {
	m.exportsTotal.WithLabelValues(report).Inc()
}

// IncrRefresh increments the refresh counter with a status label.
func (m *Metrics) IncrRefresh(status string) {
	m.refreshesTotal.WithLabelValues(status).Inc()
}

// OpsSnapshot is a compact operational summary for the
// GET /v1/metrics/aggregation endpoint.
type OpsSnapshot struct {
	Refreshes      int64   `json:"refreshes"`
	DegradedRate   float64 `json:"degraded_rate"`
	SkippedRecords int64   `json:"skipped_records"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
	ExportsTotal   int64   `json:"exports_total"`
}

// GetOpsSnapshot reads the current counter values.
// Note: Prometheus counters expose cumulative values.
func (m *Metrics) GetOpsSnapshot() *OpsSnapshot {
	full := getCounterValue(m.refreshesTotal, "full")
	degraded := getCounterValue(m.refreshesTotal, "degraded")
	refreshes := full + degraded

	degradedRate := float64(0)
	if refreshes > 0 {
		degradedRate = degraded / refreshes
	}

	hits := getCounterValue(m.cacheHits, "snapshot")
	misses := getCounterValue(m.cacheMisses, "snapshot")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	skipped := getCounterValue(m.skippedRecords, "dashboard") +
		getCounterValue(m.skippedRecords, "daily_volume") +
		getCounterValue(m.skippedRecords, "revenue_by_type") +
		getCounterValue(m.skippedRecords, "top_customers")

	exports := getCounterValue(m.exportsTotal, "daily-volume") +
		getCounterValue(m.exportsTotal, "revenue-by-type") +
		getCounterValue(m.exportsTotal, "top-customers")

	return &OpsSnapshot{
		Refreshes:      int64(refreshes),
		DegradedRate:   degradedRate,
		SkippedRecords: int64(skipped),
		CacheHitRate:   hitRate,
		ExportsTotal:   int64(exports),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
