// Package retry repeats Shwary calls that failed for transient reasons.
//
// Nothing in this module retries on its own: a payment POST that timed out may
// still have been accepted, so callers opt in per call and own that risk.
// Lookups such as GetTransaction are always safe to repeat.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/Tresor-Kasenda/shwary-go"
)

// Config holds the backoff policy.
type Config struct {
	MaxAttempts  int           // Attempts including the first one. Values below 1 mean 1.
	InitialDelay time.Duration // Delay before the second attempt
	MaxDelay     time.Duration // Upper bound for any delay
	Multiplier   float64       // Growth factor between delays. Values below 1 mean 1.
}

// DefaultConfig suits interactive lookups.
var DefaultConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2.0,
}

// IsRetryable decides whether an error should trigger another attempt.
type IsRetryable func(error) bool

// IsTransient reports whether err is a *shwary.Error worth repeating:
// transport failures, timeouts, rate limits and 5xx responses.
// Validation and authentication errors are never transient.
func IsTransient(err error) bool {
	e, ok := shwary.AsError(err)
	return ok && e.Retryable()
}

// Delay returns the wait before attempt n (n >= 1 is the first retry).
func (c Config) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	multiplier := c.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := float64(c.InitialDelay)
	for i := 1; i < n; i++ {
		delay *= multiplier
		if c.MaxDelay > 0 && delay >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && time.Duration(delay) > c.MaxDelay {
		return c.MaxDelay
	}
	return time.Duration(delay)
}

// WithRetry calls fn until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done. A nil isRetryable means IsTransient.
//
// When the attempts run out the last error is wrapped, so errors.As still
// finds the *shwary.Error.
func WithRetry[T any](
	ctx context.Context,
	config Config,
	isRetryable IsRetryable,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	if isRetryable == nil {
		isRetryable = IsTransient
	}
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(config.Delay(attempt))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return zero, fmt.Errorf("retry canceled after %d attempts: %w", attempt, ctx.Err())
			}
		}

		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("retry canceled after %d attempts: %w", attempt, err)
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

// WithSimpleRetry is WithRetry with DefaultConfig and IsTransient.
func WithSimpleRetry[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	return WithRetry(ctx, DefaultConfig, IsTransient, fn)
}
