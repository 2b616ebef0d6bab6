package listings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabsesasta/price-service/internal/comparison"
)

func price(f float64) *float64 { return &f }

func TestGuardedSource_PassesThrough(t *testing.T) {
	snapshot := []comparison.VendorListing{
		{VendorName: "A", DisplayName: "Rice", Price: price(1)},
	}
	g := NewGuardedSource("static", NewStaticSource(snapshot), BreakerConfig{}, time.Second, NewMetricsRecorder())

	got, err := g.Listings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)

	// Each caller owns its slice.
	got[0].VendorName = "mutated"
	again, err := g.Listings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].VendorName)
}

func TestGuardedSource_OpensAndRejects(t *testing.T) {
	var calls atomic.Int32
	failing := ListingSourceFunc(func(ctx context.Context) ([]comparison.VendorListing, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	})
	g := NewGuardedSource("db", failing, BreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour, HalfOpenMaxCalls: 1}, 0, nil)

	for i := 0; i < 2; i++ {
		_, err := g.Listings(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, BreakerOpen, g.State())

	_, err := g.Listings(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGuardedSource_AppliesTimeout(t *testing.T) {
	slow := ListingSourceFunc(func(ctx context.Context) ([]comparison.VendorListing, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	g := NewGuardedSource("slow", slow, BreakerConfig{}, 20*time.Millisecond, nil)

	_, err := g.Listings(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, g.Breaker().FailureCount())
}

func TestGuardedSource_CoalescesConcurrentLoads(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	src := ListingSourceFunc(func(ctx context.Context) ([]comparison.VendorListing, error) {
		calls.Add(1)
		<-release
		return []comparison.VendorListing{{VendorName: "A"}}, nil
	})
	g := NewGuardedSource("db", src, BreakerConfig{}, 0, nil)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Listings(context.Background())
			errs <- err
		}()
	}

	// Let the goroutines pile onto the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.LessOrEqual(t, calls.Load(), int32(n))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestStaticSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticSource(nil).Listings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
