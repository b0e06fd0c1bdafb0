package execution

import (
	"context"
	"math/rand"
	"time"
)

// RetryableFunc is a function that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// WithRetry executes a function up to maxAttempts times with exponential
// backoff and jitter between attempts. It stops early when ctx is done.
func WithRetry[T any](ctx context.Context, maxAttempts int, initialBackoff time.Duration, maxBackoff time.Duration, fn RetryableFunc[T]) (T, error) {
	var result T
	var err error

	for i := 0; i < maxAttempts; i++ {
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		if i == maxAttempts-1 {
			break
		}

		backoff := initialBackoff * (1 << i)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		jitter := time.Duration(rand.Intn(10)) * time.Millisecond

		timer := time.NewTimer(backoff + jitter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}

	return result, err
}
