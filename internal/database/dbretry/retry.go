// Package dbretry classifies driver errors and retries idempotent database
// calls, such as connectivity checks, on transient failures. State-changing
// transactions are never retried here.
package dbretry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	maxElapsedTime  = 10 * time.Second
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxRetries      = uint64(4)
)

func newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxElapsedTime),
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
	), maxRetries)

	return backoff.WithContext(b, ctx)
}

// Operation runs an idempotent call, retrying it while it fails with a retryable error.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	var result T
	var lastErr error

	err := backoff.Retry(func() error {
		var err error
		result, err = operation(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryableError(err) {
			return backoff.Permanent(err)
		}

		lastErr = err
		return err
	}, newBackOff(ctx))
	if err != nil {
		if lastErr != nil && IsRetryableError(err) {
			return result, fmt.Errorf("database operation failed after retries: %w", lastErr)
		}
		return result, err
	}

	return result, nil
}

// NoResult is Operation for queries that only report an error.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	_, err := Operation(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}
