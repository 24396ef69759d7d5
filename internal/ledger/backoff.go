package ledger

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy returns the backoff between conflicting attempts: jittered
// exponential growth from base, at most maxRetries retries, stopping early
// when ctx is done.
func retryPolicy(ctx context.Context, base time.Duration, maxRetries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxInterval = base << 5
	b.MaxElapsedTime = 0
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
}
