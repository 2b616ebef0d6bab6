package listings

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sourceFailures counts failed snapshot loads per source.
	sourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_source_failures_total",
		Help: "Total number of failed listing snapshot loads",
	}, []string{"source"})

	// breakerState exposes the breaker state per source: 0 closed, 1 open, 2 half-open.
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listing_source_breaker_state",
		Help: "Circuit breaker state per listing source (0 closed, 1 open, 2 half-open)",
	}, []string{"source"})

	// snapshotDuration tracks snapshot load latency.
	snapshotDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "listing_snapshot_load_duration_seconds",
		Help:    "Time taken to load a listing snapshot",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// snapshotSize tracks the number of listings per snapshot.
	snapshotSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listing_snapshot_size",
		Help: "Number of listings in the most recent snapshot",
	}, []string{"source"})
)

// MetricsRecorder records listing source metrics. A nil recorder is a no-op.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordSourceFailure records one failed load.
func (m *MetricsRecorder) RecordSourceFailure(source string) {
	if m == nil {
		return
	}
	sourceFailures.WithLabelValues(source).Inc()
}

// RecordBreakerState records the breaker's current state.
func (m *MetricsRecorder) RecordBreakerState(source string, state BreakerState) {
	if m == nil {
		return
	}
	breakerState.WithLabelValues(source).Set(float64(state))
}

// RecordSnapshot records a successful load.
func (m *MetricsRecorder) RecordSnapshot(source string, duration time.Duration, size int) {
	if m == nil {
		return
	}
	snapshotDuration.WithLabelValues(source).Observe(duration.Seconds())
	snapshotSize.WithLabelValues(source).Set(float64(size))
}
