package listings

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg BreakerConfig) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("test", cfg, nil, zerolog.Nop())
	cb.now = clock.now
	return cb, clock
}

func TestBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(42).String())
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb, _ := newTestBreaker(BreakerConfig{})
	assert.Equal(t, DefaultBreakerConfig(), cb.config)
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb, _ := newTestBreaker(BreakerConfig{MaxFailures: 3, ResetTimeout: time.Second, HalfOpenMaxCalls: 1})
	boom := errors.New("boom")

	cb.RecordFailure(boom)
	cb.RecordFailure(boom)
	assert.Equal(t, BreakerClosed, cb.State())
	assert.True(t, cb.Allow())

	cb.RecordFailure(boom)
	assert.Equal(t, BreakerOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(BreakerConfig{MaxFailures: 2, ResetTimeout: time.Second, HalfOpenMaxCalls: 1})

	cb.RecordFailure(errors.New("boom"))
	cb.RecordSuccess()
	assert.Equal(t, 0, cb.FailureCount())

	cb.RecordFailure(errors.New("boom"))
	assert.Equal(t, BreakerClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Second, HalfOpenMaxCalls: 2})

	cb.RecordFailure(errors.New("boom"))
	assert.False(t, cb.Allow())

	clock.advance(10 * time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, BreakerHalfOpen, cb.State())
	assert.True(t, cb.Allow())
	assert.False(t, cb.Allow(), "probe budget exhausted")

	cb.RecordSuccess()
	assert.Equal(t, BreakerHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, BreakerClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: time.Second, HalfOpenMaxCalls: 2})

	cb.RecordFailure(errors.New("boom"))
	clock.advance(time.Second)
	assert.True(t, cb.Allow())

	cb.RecordFailure(errors.New("still down"))
	assert.Equal(t, BreakerOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour, HalfOpenMaxCalls: 1})

	cb.RecordFailure(errors.New("boom"))
	assert.Equal(t, BreakerOpen, cb.State())

	cb.Reset()
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
	assert.True(t, cb.Allow())
}
