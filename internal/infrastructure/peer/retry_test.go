package peer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_SucceedsAfterFailures(t *testing.T) {
	policy := RetryPolicy{Backoff: FixedBackoff(time.Millisecond)}

	calls := 0
	attempts, err := policy.Do(context.Background(), "mes", func(ctx context.Context) error {
		calls++
		if calls <= 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 4, attempts)
	require.Equal(t, 4, calls)
}

func TestRetryPolicy_MaxAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, Backoff: FixedBackoff(time.Millisecond)}

	calls := 0
	attempts, err := policy.Do(context.Background(), "mes", func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.Equal(t, 2, attempts)
	require.Equal(t, 2, calls)
}

func TestRetryPolicy_CancelledDuringBackoff(t *testing.T) {
	policy := RetryPolicy{Backoff: FixedBackoff(time.Hour)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := policy.Do(ctx, "indicator", func(ctx context.Context) error {
			return errors.New("connection refused")
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retry loop ignored cancellation")
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(time.Second, 30*time.Second)
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{attempt: 1, expected: time.Second},
		{attempt: 2, expected: 2 * time.Second},
		{attempt: 3, expected: 4 * time.Second},
		{attempt: 5, expected: 16 * time.Second},
		{attempt: 6, expected: 30 * time.Second},
		{attempt: 64, expected: 30 * time.Second},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, b(test.attempt), "attempt %d", test.attempt)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 0, p.MaxAttempts)
	assert.Equal(t, 5*time.Second, p.Backoff(1))
	assert.Equal(t, 5*time.Second, p.Backoff(100))
}
