package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy(t *testing.T) {
	base := 10 * time.Millisecond
	b := retryPolicy(context.Background(), base, 4)
	b.Reset()

	for attempt := 0; attempt < 4; attempt++ {
		d := b.NextBackOff()
		interval := float64(base << attempt)
		assert.GreaterOrEqual(t, float64(d), 0.5*interval, "attempt %d", attempt)
		assert.LessOrEqual(t, float64(d), 1.5*interval, "attempt %d", attempt)
	}
	assert.Equal(t, backoff.Stop, b.NextBackOff())

	assert.Equal(t, backoff.Stop, retryPolicy(context.Background(), base, 0).NextBackOff())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, backoff.Stop, retryPolicy(ctx, base, 3).NextBackOff())
}
