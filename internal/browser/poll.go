package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// PollInterval is the pace of condition re-evaluation
const PollInterval = 100 * time.Millisecond

// ErrPollTimeout is returned when a polled condition never held
var ErrPollTimeout = errors.New("condition not met before timeout")

// Poll evaluates cond until it reports true, the timeout elapses or ctx ends.
// Errors from cond are retried; the last one is attached to the timeout error.
func Poll(ctx context.Context, timeout time.Duration, cond func() (bool, error)) error {
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(PollInterval), 1)
	limiter.Allow() // the first evaluation does not wait

	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		lastErr = err

		if waitErr := limiter.Wait(pollCtx); waitErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %w", ErrPollTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrPollTimeout, timeout)
		}
	}
}

// clip bounds a driver timeout by the context deadline. Drivers treat zero as
// "no timeout", so the result is never below a millisecond.
func clip(ctx context.Context, d time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < d {
			d = remaining
		}
	}
	return max(d, time.Millisecond)
}
