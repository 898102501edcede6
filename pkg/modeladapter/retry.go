package modeladapter

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
)

var _ Generator = (*Retrying)(nil)

// RetryPolicy bounds how often and how patiently a generation is retried.
// The wait before retry n is Multiplier * 2^(n-1), clamped to [Min, Max].
type RetryPolicy struct {
	MaxAttempts int           // Total attempts including the first one.
	Multiplier  time.Duration // Scale of the exponential curve.
	Min         time.Duration // Lower bound of a single wait.
	Max         time.Duration // Upper bound of a single wait.
}

// DefaultRetryPolicy returns three attempts with waits between 4s and 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Multiplier:  time.Second,
		Min:         4 * time.Second,
		Max:         10 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultRetryPolicy.
func (p RetryPolicy) withDefaults() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Multiplier <= 0 {
		p.Multiplier = d.Multiplier
	}
	if p.Min <= 0 {
		p.Min = d.Min
	}
	if p.Max <= 0 {
		p.Max = d.Max
	}
	if p.Max < p.Min {
		p.Max = p.Min
	}
	return p
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	p = p.withDefaults()

	d := p.Multiplier
	for i := 1; i < attempt && d < p.Max; i++ {
		d *= 2
	}

	return min(max(d, p.Min), p.Max)
}

// Retrying wraps a Generator and retries transient failures with exponential
// backoff. Non-transient errors are returned immediately; after the last
// attempt the final failure is returned unchanged.
type Retrying struct {
	inner  Generator
	policy RetryPolicy
	log    *slog.Logger

	fallbackTracker usage.Tracker

	// sleepFunc is used for testing; defaults to a context-aware sleep.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps inner with the given policy. Zero policy fields take the
// values of DefaultRetryPolicy.
func NewRetrying(inner Generator, policy RetryPolicy) *Retrying {
	return &Retrying{
		inner:     inner,
		policy:    policy.withDefaults(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleepFunc: contextSleep,
	}
}

// SetSleepFunc overrides the sleep function (for testing).
func (r *Retrying) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	r.sleepFunc = fn
}

// SetLogger sets the logger used to record retries.
func (r *Retrying) SetLogger(log *slog.Logger) {
	if log != nil {
		r.log = log
	}
}

// Policy returns the effective retry policy.
func (r *Retrying) Policy() RetryPolicy { return r.policy }

// contextSleep sleeps for d or until ctx is cancelled.
func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Generate implements Generator.
func (r *Retrying) Generate(ctx context.Context, req Request) (Result, error) {
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		res, err := r.inner.Generate(ctx, req)
		if err == nil {
			return res, nil
		}

		lastErr = err

		if !IsTransient(err) || attempt == r.policy.MaxAttempts {
			break
		}

		wait := r.wait(attempt, err)

		r.log.WarnContext(ctx, "generation failed, retrying",
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"wait", wait,
			"error", err,
		)

		if err := r.sleepFunc(ctx, wait); err != nil {
			return Result{}, err
		}
	}

	return Result{}, lastErr
}

// wait returns the backoff for attempt, raised to the server's Retry-After
// hint when one was given. The result never exceeds the policy's Max.
func (r *Retrying) wait(attempt int, err error) time.Duration {
	d := r.policy.Backoff(attempt)

	if rle, ok := asRateLimit(err); ok && rle.RetryAfter > d {
		d = min(rle.RetryAfter, r.policy.Max)
	}

	return d
}

// UsageTracker forwards to the inner generator if it implements UsageReporter.
func (r *Retrying) UsageTracker() *usage.Tracker {
	if ur, ok := r.inner.(UsageReporter); ok {
		return ur.UsageTracker()
	}
	return &r.fallbackTracker
}
