package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryWithBackoff wraps a save transaction with exponential backoff retry.
// Retries only on OptimisticLockError — a version conflict means another
// process saved the same record first, so re-reading and retrying the
// caller's business logic is the correct recovery.
func RetryWithBackoff(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 0 // bounded by attempt count below, not elapsed time
	b.RandomizationFactor = 0.1

	const maxAttempts = 3
	attempt := 0

	return backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++

		err := operation()
		if err == nil {
			return nil
		}
		if !IsOptimisticLockConflict(err) {
			return backoff.Permanent(err)
		}
		if attempt >= maxAttempts {
			return backoff.Permanent(err)
		}
		return err // retryable: backoff.Retry will wait and call operation again
	}, backoff.WithContext(b, ctx))
}
