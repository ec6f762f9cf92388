package peer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var ErrRetriesExhausted = errors.New("max connection attempts exceeded")

// Backoff задержка перед следующей попыткой (attempt начинается с 1)
type Backoff func(attempt int) time.Duration

// FixedBackoff одинаковая задержка между попытками
func FixedBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff initial * 2^(attempt-1), но не больше max
func ExponentialBackoff(initial, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		if attempt > 31 {
			return max
		}
		delay := initial * time.Duration(1<<uint(attempt-1))
		if delay > max || delay <= 0 {
			delay = max
		}
		return delay
	}
}

// RetryPolicy политика повторного подключения.
// При MaxAttempts == 0 попытки не ограничены.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     Backoff
}

// DefaultRetryPolicy бесконечные попытки раз в 5 секунд: станция ждёт,
// пока поднимется инфраструктура
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Backoff: FixedBackoff(5 * time.Second)}
}

// Do вызывает fn до первого успеха. Возвращает номер успешной попытки.
func (p RetryPolicy) Do(ctx context.Context, name string, fn func(ctx context.Context) error) (int, error) {
	backoff := p.Backoff
	if backoff == nil {
		backoff = FixedBackoff(0)
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			slog.Error("peer connection failed, giving up",
				"peer", name,
				"attempt", attempt,
				"error", err,
			)
			return attempt, fmt.Errorf("%s: %w (%d attempts): %v", name, ErrRetriesExhausted, attempt, err)
		}

		delay := backoff(attempt)
		slog.Error("can't connect to peer",
			"peer", name,
			"attempt", attempt,
			"error", err,
			"retry_in", delay,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
	}
}
