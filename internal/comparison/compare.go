package comparison

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Compare prices the requested list at every vendor in the snapshot and
// computes the per-item cheapest allocation. It is pure: same inputs, same
// output, no I/O, safe for concurrent use with separate inputs.
func Compare(items []RequestedItem, listings []VendorListing) Result {
	result, _ := compare(items, listings, nil)
	return result
}

// compareSummary describes a comparison for logging and metrics.
type compareSummary struct {
	listings     int
	vendors      int
	excluded     int
	unknown      int
	vendorStats  *matchStats
	megaStats    *matchStats
	megaOmitted  int
	shortCircuit bool
}

func compare(items []RequestedItem, listings []VendorListing, summary *compareSummary) (Result, *compareSummary) {
	if len(items) == 0 {
		if summary != nil {
			summary.shortCircuit = true
		}
		return EmptyResult(), summary
	}

	var vendorStats, megaStats *matchStats
	if summary != nil {
		vendorStats, megaStats = newMatchStats(), newMatchStats()
	}

	idx := BuildIndex(listings)
	vendors := idx.Vendors()

	options := make([]VendorResult, 0, len(vendors))
	for _, v := range vendors {
		options = append(options, evaluateVendor(v, items, idx, vendorStats))
	}
	mega := allocate(items, idx, megaStats)

	// Stable: vendors tied on cost keep first-seen order.
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalCost < options[j].TotalCost
	})

	if summary != nil {
		summary.listings = idx.Len()
		summary.vendors = len(vendors)
		summary.excluded = idx.ExcludedCount()
		summary.unknown = idx.UnknownVendorCount()
		summary.vendorStats = vendorStats
		summary.megaStats = megaStats
		summary.megaOmitted = len(items) - len(mega.Items)
	}

	return Result{VendorOptions: options, MegaOption: mega}, summary
}

// Comparer runs comparisons with logging, metrics and tracing around the
// pure computation.
type Comparer struct {
	metrics *MetricsRecorder
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewComparer creates a comparer. A nil recorder gets the default one.
func NewComparer(metrics *MetricsRecorder) *Comparer {
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	return &Comparer{
		metrics: metrics,
		logger:  log.With().Str("component", "comparison").Logger(),
		tracer:  otel.Tracer("github.com/sabsesasta/price-service/internal/comparison"),
	}
}

// Metrics returns the recorder used by the comparer.
func (c *Comparer) Metrics() *MetricsRecorder {
	return c.metrics
}

// Run compares items against the listing snapshot. The context carries the
// trace only; the computation has no cancellation points.
func (c *Comparer) Run(ctx context.Context, items []RequestedItem, listings []VendorListing) Result {
	_, span := c.tracer.Start(ctx, "comparison.Compare", trace.WithAttributes(
		attribute.Int("comparison.items", len(items)),
		attribute.Int("comparison.listings", len(listings)),
	))
	defer span.End()

	start := time.Now()
	result, summary := compare(items, listings, &compareSummary{})
	duration := time.Since(start)

	c.metrics.RecordComparison(duration, len(items), summary.vendors)
	if summary.shortCircuit {
		c.metrics.RecordEmptyResult("empty_list")
		c.logger.Debug().Msg("Empty shopping list, returning canonical empty result")
		return result
	}
	if len(listings) == 0 {
		c.metrics.RecordEmptyResult("no_listings")
	}

	for criterion, n := range summary.vendorStats.byCriterion {
		c.metrics.RecordMatches(criterion.String(), n)
	}
	for criterion, n := range summary.megaStats.byCriterion {
		c.metrics.RecordMatches(criterion.String(), n)
	}
	c.metrics.RecordUnmatched("vendor", summary.vendorStats.unmatched)
	c.metrics.RecordUnmatched("mega", summary.megaOmitted)
	c.metrics.RecordExcludedListings(summary.excluded)

	if summary.unknown > 0 {
		c.logger.Warn().
			Int("listings", summary.unknown).
			Msg("Listings without vendor name grouped under Unknown Vendor")
	}

	span.SetAttributes(
		attribute.Int("comparison.vendors", summary.vendors),
		attribute.Int("comparison.excluded_listings", summary.excluded),
		attribute.Float64("comparison.mega_total", result.MegaOption.TotalCost),
	)

	c.logger.Debug().
		Int("items", len(items)).
		Int("listings", summary.listings).
		Int("vendors", summary.vendors).
		Int("excluded_listings", summary.excluded).
		Int("mega_omitted", summary.megaOmitted).
		Dur("duration", duration).
		Msg("Comparison completed")

	return result
}
