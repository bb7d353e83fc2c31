package upsert

import (
	"context"
	"net/http"
	"time"
)

// RetryPolicy centralizes the backoff behavior shared by the batch and
// per-record upsert paths.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	// Retryable classifies an HTTP status as transient. 429 and 5xx retry;
	// other 4xx fail immediately.
	Retryable func(status int) bool
	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// DefaultRetryPolicy returns the production policy: 3 attempts, 1s initial
// delay, doubling each attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2,
		Retryable:    RetryableStatus,
		sleep:        time.Sleep,
	}
}

// RetryableStatus reports whether an HTTP status is worth retrying.
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Do invokes fn until it succeeds, fails permanently, or the attempt ceiling
// is reached. fn returns the HTTP status (0 when transport-level) and error.
func (p RetryPolicy) Do(ctx context.Context, fn func() (int, error)) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		status, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		// Transport errors (status 0) are treated as transient.
		if status != 0 && !p.Retryable(status) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sleep(delay)
		delay = time.Duration(float64(delay) * p.Multiplier)
	}

	return lastErr
}
