// Package poll provides the bounded retry loop every assertion runs under.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval paces checks when the caller passes zero
const DefaultInterval = 100 * time.Millisecond

type retryable struct {
	err error
}

func (r *retryable) Error() string { return r.err.Error() }
func (r *retryable) Unwrap() error { return r.err }

// Retry marks err as a failure worth checking again
func Retry(err error) error {
	if err == nil {
		return nil
	}
	return &retryable{err: err}
}

// IsRetry reports whether err was marked with Retry
func IsRetry(err error) bool {
	var r *retryable
	return errors.As(err, &r)
}

// Outcome describes how a poll ended
type Outcome struct {
	Attempts int
	Elapsed  time.Duration
	TimedOut bool
}

// CheckGrace bounds how long the check running at the deadline may take
const CheckGrace = time.Second

// Until runs check immediately and then at interval pacing until it returns nil,
// returns an error not marked with Retry, or timeout elapses. When the next tick would
// fall past the deadline it waits only until the deadline and checks one last time.
// On timeout the last retryable error is returned unwrapped.
func Until(ctx context.Context, timeout, interval time.Duration, check func(ctx context.Context) error) (Outcome, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	if timeout <= 0 {
		err := check(ctx)
		out := Outcome{Attempts: 1, Elapsed: time.Since(start)}
		if IsRetry(err) {
			out.TimedOut = true
			return out, errors.Unwrap(err)
		}
		return out, err
	}

	deadline := start.Add(timeout)
	checkCtx, cancel := context.WithDeadline(ctx, deadline.Add(max(interval, CheckGrace)))
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	var out Outcome
	var last error

	for {
		if ctx.Err() != nil {
			break
		}
		delay := limiter.Reserve().Delay()
		if remaining := time.Until(deadline); delay > remaining {
			delay = remaining
		}
		if err := Sleep(ctx, delay); err != nil {
			break
		}

		out.Attempts++
		err := check(checkCtx)
		out.Elapsed = time.Since(start)
		if err == nil {
			return out, nil
		}

		if !IsRetry(err) {
			// a check cut short by our own deadline is a timeout, not a driver failure
			if checkCtx.Err() != nil && ctx.Err() == nil && last != nil {
				break
			}
			return out, err
		}
		last = errors.Unwrap(err)

		if !time.Now().Before(deadline) {
			break
		}
	}

	out.Elapsed = time.Since(start)
	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("poll cancelled after %d attempts: %w", out.Attempts, err)
	}

	out.TimedOut = true
	if last == nil {
		last = fmt.Errorf("no check completed within %v", timeout)
	}
	return out, last
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
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
