package submit

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
)

// RetryConfig controls the retry decorator.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Clock times the waits between attempts. Nil uses the real clock.
	Clock clockwork.Clock
}

// DefaultRetryConfig is a single extra attempt after a short wait.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 2,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     3 * time.Second,
		Multiplier:  2,
	}
}

// RetrySubmitter is a decorator that retries ErrUnavailable with
// exponential backoff and jitter.
type RetrySubmitter struct {
	inner  Submitter
	config RetryConfig
}

// WithRetry wraps a Submitter with retry logic.
func WithRetry(s Submitter, cfg RetryConfig) Submitter {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &RetrySubmitter{inner: s, config: cfg}
}

func (r *RetrySubmitter) Submit(ctx context.Context, endpoint string, payload any) (*Result, error) {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		res, err := r.inner.Submit(ctx, endpoint, payload)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !Retryable(err) {
			return nil, err
		}
		// Last attempt: don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		timer := r.config.Clock.NewTimer(r.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.Chan():
		}
	}
	return nil, lastErr
}

// backoff computes the wait duration for the given attempt.
func (r *RetrySubmitter) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
