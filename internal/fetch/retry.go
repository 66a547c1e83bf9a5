// Package fetch holds the retry-and-degrade pattern shared by every
// upstream source: a fixed pre-request delay, a bounded number of attempts
// and a linear backoff between them.
package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// MaxAttempts is the hard cap on upstream attempts per fetch.
const MaxAttempts = 3

type Policy struct {
	// RequestDelay is slept before every attempt, successful or not.
	RequestDelay time.Duration
	// BaseDelay is multiplied by the failed attempt number to get the wait
	// before the next attempt.
	BaseDelay time.Duration
}

// DefaultPolicy is used by the single-request pipelines.
func DefaultPolicy() Policy {
	return Policy{
		RequestDelay: 1 * time.Second,
		BaseDelay:    2 * time.Second,
	}
}

// ResearchPolicy is used by the multi-request trends research pipeline,
// which is the one most likely to hit upstream throttling.
func ResearchPolicy() Policy {
	return Policy{
		RequestDelay: 5 * time.Second,
		BaseDelay:    5 * time.Second,
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// LinearBackOff yields Base, 2*Base, 3*Base, ... and implements
// backoff.BackOff.
type LinearBackOff struct {
	Base    time.Duration
	attempt int
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.Base * time.Duration(b.attempt)
}

func (b *LinearBackOff) Reset() {
	b.attempt = 0
}

type Retrier struct {
	policy Policy
	logger *slog.Logger
	sleep  SleepFunc
}

type Option func(*Retrier)

// WithSleep replaces the pre-request delay implementation.
func WithSleep(fn SleepFunc) Option {
	return func(r *Retrier) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

func NewRetrier(policy Policy, logger *slog.Logger, opts ...Option) *Retrier {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Retrier{
		policy: policy,
		logger: logger,
		sleep:  Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs op up to MaxAttempts times and returns the first usable payload.
// op signals "no usable payload" by returning an error; a *FetchError keeps
// its kind, anything else is treated as a network failure.
func Do[T any](ctx context.Context, r *Retrier, source string, op func(ctx context.Context) (T, error)) Result[T] {
	var (
		attempts  int
		totalWait time.Duration
		zero      T
	)
	start := time.Now()

	operation := func() (T, error) {
		attempts++
		if err := r.sleep(ctx, r.policy.RequestDelay); err != nil {
			return zero, backoff.Permanent(Fail(FailureCanceled, err))
		}

		payload, err := op(ctx)
		if err == nil {
			if attempts > 1 {
				r.logger.Info("fetch succeeded after retry",
					"source", source,
					"attempt", attempts,
					"total_wait_ms", totalWait.Milliseconds())
			}
			return payload, nil
		}

		fe := Classify(err)
		if fe.Kind == FailureCanceled {
			return zero, backoff.Permanent(fe)
		}
		r.logger.Warn("attempt failed",
			"source", source,
			"attempt", attempts,
			"max_attempts", MaxAttempts,
			"kind", fe.Kind.String(),
			"error", fe.Err)
		return zero, fe
	}

	payload, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&LinearBackOff{Base: r.policy.BaseDelay}),
		backoff.WithMaxTries(MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			totalWait += next
			r.logger.Debug("retry backoff wait",
				"source", source,
				"attempt", attempts,
				"retry_delay_ms", next.Milliseconds(),
				"total_wait_ms", totalWait.Milliseconds())
		}),
	)
	if err == nil {
		return Result[T]{Payload: payload, Attempts: attempts}
	}

	fe := Classify(err)
	if fe.Kind == FailureCanceled {
		r.logger.Warn("fetch canceled", "source", source, "attempt", attempts, "error", fe.Err)
	} else {
		r.logger.Error("all attempts failed to fetch data",
			"source", source,
			"attempts", attempts,
			"error", fe.Err,
			"total_duration_ms", time.Since(start).Milliseconds())
	}
	return Result[T]{Attempts: attempts, Err: fe}
}
