package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripplanner/pkg/svcerrors"
)

// Do executes fn under the policy: up to MaxAttempts attempts, each bounded
// by AttemptTimeout, with backoff and jitter between attempts. An attempt
// that exceeds its timeout is surfaced as a timeout-class failure and is
// retried like any other failure. Exhausting the attempts returns the last
// error observed.
func Do[T any](ctx context.Context, p *Policy, service string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.Config.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := p.CalculateDelay(attempt)
			if delay > 0 {
				select {
				case <-ctx.Done():
					return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
				case <-time.After(delay):
				}
			}
		}

		result, err := doAttempt(ctx, p, service, fn)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !p.ShouldRetry(err) {
			break
		}
	}

	return zero, lastErr
}

func doAttempt[T any](ctx context.Context, p *Policy, service string, fn func(context.Context) (T, error)) (T, error) {
	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if p.Config.AttemptTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, p.Config.AttemptTimeout)
	}
	defer cancel()

	result, err := fn(attemptCtx)
	if err == nil {
		return result, nil
	}

	// A deadline hit on the attempt context while the parent is still alive
	// is this call's timeout, not a caller cancellation.
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		var zero T
		return zero, svcerrors.Wrap(svcerrors.ErrorTypeTimeout, service, err)
	}

	return result, err
}
