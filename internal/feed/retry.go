package feed

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/config"
)

// RetryFetcher is a decorator that retries transient failures with
// exponential backoff and jitter.
type RetryFetcher struct {
	inner  Fetcher
	config config.RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a Fetcher with retry logic.
func WithRetry(f Fetcher, cfg config.RetryConfig) Fetcher {
	return &RetryFetcher{inner: f, config: cfg, sleep: sleepCtx}
}

func (r *RetryFetcher) Fetch(ctx context.Context) (*Payload, error) {
	var lastErr error
	attempts := max(r.config.MaxAttempts, 1)

	for attempt := range attempts {
		p, err := r.inner.Fetch(withAttempt(ctx, attempt+1))
		if err == nil {
			return p, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// Last attempt: return without sleeping.
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		zap.L().Debug("retrying feed fetch",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (r *RetryFetcher) Source() string {
	return r.inner.Source()
}

// shouldRetry determines if an error is retryable.
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// 429 and 5xx are retryable, other statuses are final.
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	var unavail *UnavailableError
	if errors.As(err, &unavail) {
		return true
	}

	// Other errors (network, etc.) are treated as transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryFetcher) backoff(attempt int, err error) time.Duration {
	// Respect Retry-After when the feed sends one.
	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > 0 {
		return min(se.RetryAfter, r.config.MaxWait)
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
