package comparison

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// comparisonDuration tracks the time spent in the engine per comparison.
	comparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comparison_duration_seconds",
		Help:    "Time taken to compute a price comparison",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	// requestedItems tracks the distribution of shopping list sizes.
	requestedItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comparison_requested_items_count",
		Help:    "Number of requested items per comparison",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250},
	})

	// vendorsCompared tracks the number of vendors in each snapshot.
	vendorsCompared = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comparison_vendors_count",
		Help:    "Number of distinct vendors evaluated per comparison",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	// matches counts item/listing matches by the criterion that fired.
	matches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_match_total",
		Help: "Total number of item matches by match criterion",
	}, []string{"criterion"}) // criterion: product_id, display_name, base_name

	// unmatched counts items that found no listing.
	unmatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_unmatched_items_total",
		Help: "Total number of requested items without a matching listing",
	}, []string{"scope"}) // scope: vendor, mega

	// excludedListings counts listings dropped for lacking a usable price.
	excludedListings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comparison_listings_excluded_total",
		Help: "Total number of listings excluded from matching for lacking a usable price",
	})

	// emptyResults counts comparisons that produced the canonical empty result.
	emptyResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparison_empty_results_total",
		Help: "Total number of comparisons returning an empty result by reason",
	}, []string{"reason"}) // reason: empty_list, no_listings, source_unavailable
)

// MetricsRecorder provides methods to record comparison metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordComparison records one engine run.
func (m *MetricsRecorder) RecordComparison(duration time.Duration, items, vendors int) {
	comparisonDuration.Observe(duration.Seconds())
	requestedItems.Observe(float64(items))
	vendorsCompared.Observe(float64(vendors))
}

// RecordMatches adds n matches for a criterion.
func (m *MetricsRecorder) RecordMatches(criterion string, n int) {
	if n > 0 {
		matches.WithLabelValues(criterion).Add(float64(n))
	}
}

// RecordUnmatched adds n unmatched items for a scope.
func (m *MetricsRecorder) RecordUnmatched(scope string, n int) {
	if n > 0 {
		unmatched.WithLabelValues(scope).Add(float64(n))
	}
}

// RecordExcludedListings adds n listings without a usable price.
func (m *MetricsRecorder) RecordExcludedListings(n int) {
	if n > 0 {
		excludedListings.Add(float64(n))
	}
}

// RecordEmptyResult records an empty comparison result.
func (m *MetricsRecorder) RecordEmptyResult(reason string) {
	emptyResults.WithLabelValues(reason).Inc()
}
