// Package poll retries a bounded operation until it succeeds or a total
// budget runs out.
package poll

import (
	"context"
	"errors"
	"time"

	"ui-probe/pkg/apperr"
)

// ErrNotYet may be returned by an attempt to ask for another try.
var ErrNotYet = errors.New("not yet")

// Budget is the countdown for one Until call. Remaining budget is reduced
// by PerAttempt after every failed attempt, whatever the attempt actually
// took. Total also caps wall-clock time, so a call never blocks past it.
type Budget struct {
	Total      time.Duration
	PerAttempt time.Duration
	Interval   time.Duration
}

// Policy decides which attempt errors are retried. With RetryAll every
// error counts as "not yet"; otherwise only errors accepted by Retryable
// (IsNotYet when nil) are retried and the rest are returned immediately.
type Policy struct {
	RetryAll  bool
	Retryable func(error) bool
}

// Attempt runs once, bounded by timeout.
type Attempt[T any] func(ctx context.Context, timeout time.Duration) (T, error)

// Observer is told about every failed attempt.
type Observer func(attempt int, remaining time.Duration, err error)

// IsNotYet is the default retry predicate: explicit ErrNotYet, an engine wait
// that found nothing, or an attempt that hit its own deadline.
func IsNotYet(err error) bool {
	return errors.Is(err, ErrNotYet) || apperr.IsNoMatch(err) || errors.Is(err, context.DeadlineExceeded)
}

func (p Policy) retryable(err error) bool {
	if p.RetryAll {
		return true
	}

	if p.Retryable != nil {
		return p.Retryable(err)
	}

	return IsNotYet(err)
}

// Until runs attempt until it succeeds or the budget is spent. ok is false
// with a nil error when the budget ran out; that is an expected outcome, not
// a failure. A non-retryable attempt error or cancellation of ctx is
// returned as err.
func Until[T any](ctx context.Context, budget Budget, policy Policy, attempt Attempt[T], observers ...Observer) (result T, ok bool, err error) {
	var zero T

	remaining := budget.Total
	deadline := time.Now().Add(budget.Total)

	for n := 1; remaining > 0; n++ {
		timeout := budget.PerAttempt
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}

		if timeout <= 0 {
			break
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err = attempt(attemptCtx, timeout)
		cancel()

		if err == nil {
			return result, true, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, false, ctxErr
		}

		if !policy.retryable(err) {
			return zero, false, err
		}

		remaining -= budget.PerAttempt

		for _, observe := range observers {
			observe(n, remaining, err)
		}

		if remaining <= 0 {
			break
		}

		if err := sleep(ctx, budget.Interval, deadline); err != nil {
			return zero, false, err
		}
	}

	return zero, false, nil
}

// sleep waits for d, cut short by the deadline, and fails only when ctx is
// cancelled.
func sleep(ctx context.Context, d time.Duration, deadline time.Time) error {
	if left := time.Until(deadline); left < d {
		d = left
	}

	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
