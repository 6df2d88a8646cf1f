package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type BackoffConfig struct {
	// BaseInterval is the wait after the first failed attempt; attempt n
	// (zero-based) waits BaseInterval * Multiplier^n.
	BaseInterval time.Duration
	MaxAttempts  int
	Multiplier   float64

	// Sleep overrides the wait between attempts. Nil means a real wait that
	// aborts early when the context is done. Tests inject a recorder here.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultConfig() BackoffConfig {
	return BackoffConfig{
		BaseInterval: 1 * time.Second,
		MaxAttempts:  5,
		Multiplier:   2.0,
	}
}

// Intervals returns the full wait schedule for the configured attempt budget.
func (cfg BackoffConfig) Intervals() []time.Duration {
	intervals := make([]time.Duration, cfg.MaxAttempts)
	interval := cfg.BaseInterval
	for i := range intervals {
		intervals[i] = interval
		interval = time.Duration(float64(interval) * cfg.Multiplier)
	}
	return intervals
}

func (cfg BackoffConfig) sleep(ctx context.Context, d time.Duration) error {
	if cfg.Sleep != nil {
		return cfg.Sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// HTTPConfig is the tighter schedule used for plain HTTP calls where the
// caller is waiting on the response path.
func HTTPConfig() BackoffConfig {
	return BackoffConfig{
		BaseInterval: 500 * time.Millisecond,
		MaxAttempts:  3,
		Multiplier:   2.0,
	}
}

// IsRetryableHTTPStatus reports whether a response status is worth retrying.
func IsRetryableHTTPStatus(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	return statusCode == http.StatusRequestTimeout
}

// WithBackoff runs fn up to MaxAttempts times, waiting the schedule between
// attempts. Every failure is treated as transient and waited out, matching the
// provider call contract: the wait happens even after the final attempt.
// Context cancellation aborts immediately. The last error is returned wrapped
// once the budget is exhausted.
func WithBackoff(ctx context.Context, cfg BackoffConfig, fn func() error) error {
	var lastErr error
	interval := cfg.BaseInterval

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if err := cfg.sleep(ctx, interval); err != nil {
			return err
		}
		interval = time.Duration(float64(interval) * cfg.Multiplier)
	}

	return fmt.Errorf("max attempts (%d) exhausted: %w", cfg.MaxAttempts, lastErr)
}

// WithBackoffHTTP is WithBackoff for callers that see the HTTP status code.
// A non-retryable status fails immediately instead of burning the budget;
// unlike the provider schedule, the final failure is not waited out.
func WithBackoffHTTP(ctx context.Context, cfg BackoffConfig, fn func() (int, error)) error {
	var lastErr error
	interval := cfg.BaseInterval

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		statusCode, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if statusCode != 0 && !IsRetryableHTTPStatus(statusCode) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		if err := cfg.sleep(ctx, interval); err != nil {
			return err
		}
		interval = time.Duration(float64(interval) * cfg.Multiplier)
	}

	return fmt.Errorf("max attempts (%d) exhausted: %w", cfg.MaxAttempts, lastErr)
}
