// Package retry implements linear-backoff retry around worker invocations.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

// Controller retries a worker invocation with linear backoff: after failed
// attempt n it sleeps BaseDelay*n before attempt n+1. Only retryable
// failures (rate limits, timeouts, transient invocation errors) are
// retried; construction failures and successes return immediately.
type Controller struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
	Logger         *slog.Logger
}

// NewController builds a Controller with the given budget. A zero
// AttemptTimeout disables per-attempt deadlines.
func NewController(maxAttempts int, baseDelay, attemptTimeout time.Duration, logger *slog.Logger) *Controller {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		MaxAttempts:    maxAttempts,
		BaseDelay:      baseDelay,
		AttemptTimeout: attemptTimeout,
		Logger:         logger,
	}
}

// AttemptFunc performs one invocation attempt. It must report failure via
// the result, never by panicking; the adapter guarantees that contract.
type AttemptFunc func(ctx context.Context) worker.InvocationResult

// Do runs fn until it succeeds, the failure is non-retryable, the attempt
// budget is exhausted, or ctx is cancelled. The last attempt's result is
// returned in every case.
func (c *Controller) Do(ctx context.Context, role worker.Role, fn AttemptFunc) worker.InvocationResult {
	var result worker.InvocationResult

	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		result = c.attempt(ctx, fn)
		if result.OK() {
			if attempt > 1 {
				c.Logger.InfoContext(ctx, "worker recovered after retry",
					"role", role, "attempt", attempt)
			}
			return result
		}

		if !result.Retryable() {
			c.Logger.WarnContext(ctx, "worker failed with non-retryable error",
				"role", role, "attempt", attempt, "kind", result.Kind, "error", result.Message)
			return result
		}

		if attempt == c.MaxAttempts {
			break
		}

		delay := c.BaseDelay * time.Duration(attempt)
		c.Logger.WarnContext(ctx, "worker attempt failed, backing off",
			"role", role, "attempt", attempt, "max_attempts", c.MaxAttempts,
			"delay", delay, "error", result.Message)

		select {
		case <-ctx.Done():
			return worker.Failure(role, worker.FailureTimeout, ctx.Err().Error(), 0)
		case <-time.After(delay):
		}
	}

	c.Logger.WarnContext(ctx, "worker attempts exhausted",
		"role", role, "attempts", c.MaxAttempts, "error", result.Message)
	return result
}

func (c *Controller) attempt(ctx context.Context, fn AttemptFunc) worker.InvocationResult {
	if c.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, c.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx)
}
