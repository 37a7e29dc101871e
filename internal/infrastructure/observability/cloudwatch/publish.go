package cloudwatch

import (
	"context"
	"time"

	"github.com/avast/retry-go/v5"
)

const (
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	flushTimeout   = 30 * time.Second
)

// withRetry runs fn with exponential backoff. The last error is returned as is.
func withRetry(ctx context.Context, delay time.Duration, retryIf func(error) bool, fn func() error) error {
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(maxRetries),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
	if retryIf != nil {
		opts = append(opts, retry.RetryIf(retryIf))
	}
	return retry.New(opts...).Do(fn)
}

// flushLoop calls flush every interval until stop is closed.
func flushLoop(interval time.Duration, stop <-chan struct{}, flush func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			// failed batches stay buffered until the next tick
			_ = flush(ctx)
			cancel()
		case <-stop:
			return
		}
	}
}
