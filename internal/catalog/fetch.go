package catalog

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// FetchConfig controls downloads of remote catalog feeds
type FetchConfig struct {
	RequestsPerSecond float64
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration // Per attempt
	MaxBodySize       int64
}

// DefaultFetchConfig returns the default download configuration
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           30 * time.Second,
		MaxBodySize:       100 * 1024 * 1024,
	}
}

// FetchError is returned when a feed could not be downloaded
type FetchError struct {
	URL        string
	Attempts   int
	LastStatus int
	Err        error
}

func (e *FetchError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads remote feeds with throttling and retries.
// Safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  FetchConfig
	logger  zerolog.Logger
}

// NewFetcher creates a fetcher. Zero config fields take defaults.
func NewFetcher(config FetchConfig) *Fetcher {
	defaults := DefaultFetchConfig()
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = defaults.MaxBackoff
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = defaults.MaxBodySize
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		config:  config,
		logger:  log.With().Str("component", "catalog_fetch").Logger(),
	}
}

var defaultFetcher = NewFetcher(DefaultFetchConfig())

// IsRemote reports whether path is an http(s) URL
func IsRemote(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch downloads url. Network errors, 429 and 5xx responses are retried
// with exponential backoff; other statuses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var (
		lastStatus int
		lastErr    error
	)

	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: url, Attempts: attempt, LastStatus: lastStatus, Err: err}
		}

		body, status, retryAfter, err := f.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastStatus, lastErr = status, err

		if status != 0 && !isRetryableStatus(status) {
			return nil, &FetchError{URL: url, Attempts: attempt + 1, LastStatus: status, Err: err}
		}
		if attempt == f.config.MaxRetries {
			break
		}

		var delay time.Duration
		if status == http.StatusTooManyRequests {
			delay = rateLimitBackoff(attempt, f.config, retryAfter)
		} else {
			delay = backoff(attempt, f.config)
		}

		f.logger.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Int("status", status).
			Dur("backoff", delay).
			Err(err).
			Msg("Retrying catalog download")

		if err := sleep(ctx, delay); err != nil {
			return nil, &FetchError{URL: url, Attempts: attempt + 1, LastStatus: lastStatus, Err: err}
		}
	}

	return nil, &FetchError{URL: url, Attempts: f.config.MaxRetries + 1, LastStatus: lastStatus, Err: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, url string) (body []byte, status int, retryAfter string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, "", err
	}
	req.Header.Set("User-Agent", "price-service/1.0")
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, resp.StatusCode, resp.Header.Get("Retry-After"), fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.config.MaxBodySize {
		return nil, resp.StatusCode, "", fmt.Errorf("response exceeds %d bytes", f.config.MaxBodySize)
	}
	return data, resp.StatusCode, "", nil
}

// isRetryableStatus reports 429 and 5xx as retryable
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// backoff is exponential with 0-25% jitter, capped at MaxBackoff
func backoff(attempt int, config FetchConfig) time.Duration {
	delay := float64(config.InitialBackoff) * math.Pow(2, float64(attempt))
	delay = math.Min(delay, float64(config.MaxBackoff))
	return time.Duration(delay + rand.Float64()*0.25*delay)
}

// rateLimitBackoff honours Retry-After seconds, else backs off faster than
// backoff does.
func rateLimitBackoff(attempt int, config FetchConfig, retryAfter string) time.Duration {
	if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds > 0 {
		delay := time.Duration(seconds) * time.Second
		if delay > config.MaxBackoff {
			delay = config.MaxBackoff
		}
		return delay
	}

	delay := float64(config.InitialBackoff) * math.Pow(3, float64(attempt))
	delay = math.Min(delay, float64(config.MaxBackoff))
	return time.Duration(delay + rand.Float64()*0.25*delay)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
