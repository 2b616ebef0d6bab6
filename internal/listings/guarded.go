package listings

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/sabsesasta/price-service/internal/comparison"
)

// GuardedSource wraps a ListingSource with a circuit breaker and a load
// timeout. Concurrent loads share one in-flight query; each caller still
// receives its own slice.
type GuardedSource struct {
	name    string
	source  ListingSource
	breaker *CircuitBreaker
	timeout time.Duration
	metrics *MetricsRecorder
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewGuardedSource creates a guarded source. A zero timeout disables the
// per-load deadline.
func NewGuardedSource(name string, source ListingSource, breaker BreakerConfig, timeout time.Duration, metrics *MetricsRecorder) *GuardedSource {
	logger := log.With().Str("component", "listings").Str("source", name).Logger()
	return &GuardedSource{
		name:    name,
		source:  source,
		breaker: NewCircuitBreaker(name, breaker, metrics, logger),
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// Listings loads a snapshot through the breaker.
func (g *GuardedSource) Listings(ctx context.Context) ([]comparison.VendorListing, error) {
	if !g.breaker.Allow() {
		return nil, ErrCircuitOpen
	}

	v, err, shared := g.group.Do(g.name, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		if g.timeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, g.timeout)
			defer cancel()
		}

		start := time.Now()
		listings, err := g.source.Listings(loadCtx)
		if err != nil {
			g.breaker.RecordFailure(err)
			return nil, fmt.Errorf("failed to load listings from %s: %w", g.name, err)
		}
		g.breaker.RecordSuccess()
		g.metrics.RecordSnapshot(g.name, time.Since(start), len(listings))
		return listings, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		g.logger.Debug().Msg("Joined in-flight listing snapshot load")
	}

	snapshot := v.([]comparison.VendorListing)
	out := make([]comparison.VendorListing, len(snapshot))
	copy(out, snapshot)
	return out, nil
}

// State returns the breaker state.
func (g *GuardedSource) State() BreakerState {
	return g.breaker.State()
}

// Breaker exposes the underlying breaker.
func (g *GuardedSource) Breaker() *CircuitBreaker {
	return g.breaker
}
