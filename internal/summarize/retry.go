package summarize

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds retries of transient completion failures.
// MaxAttempts counts total calls, not retries: MaxAttempts=3 means at most
// three calls to the service. MaxTotalBackoff caps the cumulative wait.
type RetryPolicy struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffFactor   float64
	MaxTotalBackoff time.Duration
	Jitter          bool
}

// DefaultRetryPolicy returns a sensible default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialBackoff:  1 * time.Second,
		MaxBackoff:      30 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalBackoff: 2 * time.Minute,
		Jitter:          true,
	}
}

// Retry executes fn with exponential backoff on transient errors. Permanent
// errors return immediately; context cancellation interrupts the backoff wait.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BackoffFactor <= 0 {
		policy.BackoffFactor = 2.0
	}

	var lastErr error
	var totalWait time.Duration

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsTransient(err) {
			return err
		}
		if attempt == policy.MaxAttempts-1 {
			break
		}

		backoff := calculateBackoff(policy, attempt)
		if policy.MaxTotalBackoff > 0 && totalWait+backoff > policy.MaxTotalBackoff {
			return fmt.Errorf("retry backoff budget exhausted after %d attempts: %w", attempt+1, lastErr)
		}
		totalWait += backoff

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("max attempts exceeded (%d): %w", policy.MaxAttempts, lastErr)
}

// calculateBackoff computes the backoff duration for a given attempt.
func calculateBackoff(policy RetryPolicy, attempt int) time.Duration {
	backoff := float64(policy.InitialBackoff) * math.Pow(policy.BackoffFactor, float64(attempt))

	if backoff > float64(policy.MaxBackoff) {
		backoff = float64(policy.MaxBackoff)
	}

	duration := time.Duration(backoff)

	// Jitter avoids synchronized retries against a rate-limited service.
	if policy.Jitter {
		jitter := time.Duration(float64(duration) * 0.1 * (2*rand.Float64() - 1))
		duration += jitter
	}

	return duration
}
