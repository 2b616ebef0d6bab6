package listings

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BreakerState represents the state of the circuit breaker.
type BreakerState int

const (
	// BreakerClosed lets loads through.
	BreakerClosed BreakerState = iota

	// BreakerOpen rejects loads immediately.
	BreakerOpen

	// BreakerHalfOpen lets a limited number of probe loads through.
	BreakerHalfOpen
)

// String returns the string representation of the breaker state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening.
	MaxFailures int

	// ResetTimeout is how long the breaker stays open before probing.
	ResetTimeout time.Duration

	// HalfOpenMaxCalls is the number of successful probes needed to close.
	HalfOpenMaxCalls int
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:      5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// CircuitBreaker trips after repeated snapshot failures so a struggling
// database is not hammered by every comparison request.
type CircuitBreaker struct {
	mu              sync.Mutex
	name            string
	state           BreakerState
	failureCount    int
	successCount    int // Half-open only
	halfOpenCalls   int // Probes admitted while half-open
	lastFailureTime time.Time
	config          BreakerConfig
	metrics         *MetricsRecorder
	logger          zerolog.Logger
	now             func() time.Time
}

// NewCircuitBreaker creates a breaker for the named source. Zero config
// fields take their defaults.
func NewCircuitBreaker(name string, config BreakerConfig, metrics *MetricsRecorder, logger zerolog.Logger) *CircuitBreaker {
	defaults := DefaultBreakerConfig()
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = defaults.ResetTimeout
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = defaults.HalfOpenMaxCalls
	}

	cb := &CircuitBreaker{
		name:    name,
		state:   BreakerClosed,
		config:  config,
		metrics: metrics,
		logger:  logger.With().Str("circuit_breaker", name).Logger(),
		now:     time.Now,
	}
	cb.metrics.RecordBreakerState(name, BreakerClosed)
	return cb
}

// Allow reports whether a load may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		return true

	case BreakerOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.config.ResetTimeout {
			return false
		}
		cb.transitionTo(BreakerHalfOpen)
		cb.logger.Info().Msg("Circuit breaker transitioning to half-open")
		cb.halfOpenCalls = 1
		return true

	case BreakerHalfOpen:
		if cb.halfOpenCalls >= cb.config.HalfOpenMaxCalls {
			return false
		}
		cb.halfOpenCalls++
		return true

	default:
		return false
	}
}

// RecordSuccess records a successful load.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		cb.failureCount = 0

	case BreakerHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.HalfOpenMaxCalls {
			cb.transitionTo(BreakerClosed)
			cb.logger.Info().
				Int("success_count", cb.successCount).
				Msg("Circuit breaker closing after successful recovery")
			cb.reset()
		}
	}
}

// RecordFailure records a failed load.
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()
	cb.metrics.RecordSourceFailure(cb.name)

	cb.logger.Error().
		Err(err).
		Int("failure_count", cb.failureCount).
		Msg("Circuit breaker recording failure")

	switch cb.state {
	case BreakerClosed:
		if cb.failureCount >= cb.config.MaxFailures {
			cb.transitionTo(BreakerOpen)
			cb.logger.Warn().
				Int("failure_count", cb.failureCount).
				Dur("reset_timeout", cb.config.ResetTimeout).
				Msg("Circuit breaker opening after max failures")
		}

	case BreakerHalfOpen:
		cb.transitionTo(BreakerOpen)
		cb.logger.Warn().Msg("Circuit breaker re-opening after failure in half-open state")
		cb.successCount = 0
		cb.halfOpenCalls = 0
	}
}

func (cb *CircuitBreaker) transitionTo(state BreakerState) {
	cb.state = state
	cb.metrics.RecordBreakerState(cb.name, state)
}

func (cb *CircuitBreaker) reset() {
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenCalls = 0
}

// State returns the current state of the breaker.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// FailureCount returns the current consecutive failure count.
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionTo(BreakerClosed)
	cb.reset()
	cb.logger.Info().Msg("Circuit breaker manually reset to closed state")
}
