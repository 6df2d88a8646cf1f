package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestWithBackoffWaitSchedule(t *testing.T) {
	var waits []time.Duration
	cfg := BackoffConfig{
		BaseInterval: 1 * time.Second,
		MaxAttempts:  5,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	attempts := 0
	err := WithBackoff(context.Background(), cfg, func() error {
		attempts++
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, waits)
}

func TestWithBackoffShortCircuitsOnSuccess(t *testing.T) {
	var waits []time.Duration
	cfg := BackoffConfig{
		BaseInterval: 1 * time.Second,
		MaxAttempts:  5,
		Multiplier:   2.0,
		Sleep:        recordingSleep(&waits),
	}

	attempts := 0
	err := WithBackoff(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, waits)
}

func TestWithBackoffImmediateSuccess(t *testing.T) {
	var waits []time.Duration
	cfg := DefaultConfig()
	cfg.Sleep = recordingSleep(&waits)

	err := WithBackoff(context.Background(), cfg, func() error { return nil })

	require.NoError(t, err)
	assert.Empty(t, waits)
}

func TestWithBackoffWrapsLastError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }

	sentinel := errors.New("boom")
	err := WithBackoff(context.Background(), cfg, func() error { return sentinel })

	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
}

func TestWithBackoffContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		return errors.New("transient")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestIntervals(t *testing.T) {
	cfg := BackoffConfig{BaseInterval: time.Second, MaxAttempts: 5, Multiplier: 2.0}
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, cfg.Intervals())
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{408, true},
		{429, true},
		{500, true},
		{503, true},
		{599, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsRetryableHTTPStatus(tc.status), "status %d", tc.status)
	}
}
