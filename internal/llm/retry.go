package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err            error
		retriedInvalid bool
	)
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.config.MaxAttempts || !r.shouldRetry(err, &retriedInvalid) {
			return nil, err
		}

		wait := r.backoff(attempt-1, err)
		slog.Debug("llm retry", "purpose", PurposeFrom(ctx), "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry defers to Retryable, except that an invalid response is
// retried only once per call.
func (r *RetryProvider) shouldRetry(err error, retriedInvalid *bool) bool {
	if !Retryable(err) {
		return false
	}
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		return true
	}
	if *retriedInvalid {
		return false
	}
	*retriedInvalid = true
	return true
}

// backoff returns the wait before the next attempt: the provider's
// Retry-After when it sent one, otherwise exponential growth with +/-20%
// jitter. Both are capped at MaxWait.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	maxWait := float64(r.config.MaxWait)

	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return time.Duration(math.Min(float64(rl.RetryAfter), maxWait))
	}

	wait := math.Min(float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)), maxWait)
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}

// TimeoutProvider bounds every Generate call with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so each call is cancelled after d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
