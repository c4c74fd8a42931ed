// Package retry re-runs operations that failed for transient reasons:
// database connects at server startup and uploads/downloads in the client.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// RetryConfig controls how many times and how often an operation is retried.
type RetryConfig struct {
	Attempts    int
	Delays      []time.Duration
	ShouldRetry func(error) bool
	OnRetry     func(err error, attempt int, delay time.Duration)
}

// DefaultConfig returns 4 attempts with 1s, 3s and 5s pauses.
func DefaultConfig() RetryConfig {
	return RetryConfig{
		Attempts:    4,
		Delays:      []time.Duration{time.Second, 3 * time.Second, 5 * time.Second},
		ShouldRetry: defaultShouldRetry,
	}
}

// WithAttempts returns a copy of cfg limited to n attempts.
func (cfg RetryConfig) WithAttempts(n int) RetryConfig {
	cfg.Attempts = n
	return cfg
}

// Retry calls rFunc with args until it succeeds, returns a non-retriable
// error, runs out of attempts or ctx is done.
func (cfg RetryConfig) Retry(ctx context.Context, rFunc func(...any) (any, error), args ...any) (any, error) {
	return Do(ctx, cfg, func(context.Context) (any, error) {
		return rFunc(args...)
	})
}

// Do is the typed form of Retry. fn receives ctx so it can bound each
// attempt.
func Do[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = defaultShouldRetry
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		var result T
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}

		if !shouldRetry(err) || attempt == attempts-1 {
			return zero, err
		}

		delay := cfg.delayForAttempt(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(err, attempt+1, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, err
}

func (cfg RetryConfig) delayForAttempt(attempt int) time.Duration {
	if len(cfg.Delays) == 0 {
		return time.Second
	}
	if attempt >= len(cfg.Delays) {
		return cfg.Delays[len(cfg.Delays)-1]
	}
	return cfg.Delays[attempt]
}

// StatusError is an unexpected HTTP response status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// Temporary reports statuses worth repeating the request for.
func (e *StatusError) Temporary() bool {
	switch e.Code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func defaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		err = urlErr.Err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		if pgerrcode.IsConnectionException(code) || pgerrcode.IsInsufficientResources(code) {
			return true
		}
		return false
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr.Err, syscall.EACCES) ||
			errors.Is(pathErr.Err, syscall.EAGAIN) ||
			errors.Is(pathErr.Err, syscall.EBUSY)
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "no such host")
}
