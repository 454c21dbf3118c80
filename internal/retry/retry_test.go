package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/worker"
)

func TestControllerReturnsFirstSuccess(t *testing.T) {
	c := NewController(3, 10*time.Millisecond, 0, nil)

	calls := 0
	result := c.Do(context.Background(), worker.RoleExploration, func(ctx context.Context) worker.InvocationResult {
		calls++
		return worker.Success(worker.RoleExploration, "done", 0)
	})

	assert.True(t, result.OK())
	assert.Equal(t, 1, calls)
}

func TestControllerRetriesUntilSuccess(t *testing.T) {
	base := 10 * time.Millisecond
	c := NewController(3, base, 0, nil)

	calls := 0
	start := time.Now()
	result := c.Do(context.Background(), worker.RoleSQL, func(ctx context.Context) worker.InvocationResult {
		calls++
		if calls < 3 {
			return worker.Failure(worker.RoleSQL, worker.FailureInvocation, "rate limited", 0)
		}
		return worker.Success(worker.RoleSQL, "recovered", 0)
	})
	elapsed := time.Since(start)

	assert.True(t, result.OK())
	assert.Equal(t, 3, calls)

	// Linear backoff: base*1 after attempt 1, base*2 after attempt 2.
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestControllerExhaustsAttempts(t *testing.T) {
	base := 5 * time.Millisecond
	c := NewController(4, base, 0, nil)

	calls := 0
	start := time.Now()
	result := c.Do(context.Background(), worker.RoleKPI, func(ctx context.Context) worker.InvocationResult {
		calls++
		return worker.Failure(worker.RoleKPI, worker.FailureInvocation, "still failing", 0)
	})
	elapsed := time.Since(start)

	require.True(t, result.Failed)
	assert.Equal(t, 4, calls)
	assert.Equal(t, "still failing", result.Message)

	// Sleeps of base*1 + base*2 + base*3 between the four attempts.
	assert.GreaterOrEqual(t, elapsed, 6*base)
}

func TestControllerStopsOnNonRetryable(t *testing.T) {
	c := NewController(5, time.Millisecond, 0, nil)

	calls := 0
	result := c.Do(context.Background(), worker.RoleBudget, func(ctx context.Context) worker.InvocationResult {
		calls++
		return worker.Failure(worker.RoleBudget, worker.FailureConstruction, "no data source", 0)
	})

	require.True(t, result.Failed)
	assert.Equal(t, worker.FailureConstruction, result.Kind)
	assert.Equal(t, 1, calls, "construction failures must not be retried")
}

func TestControllerHonorsContextDuringBackoff(t *testing.T) {
	c := NewController(3, time.Minute, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := c.Do(ctx, worker.RoleMarket, func(ctx context.Context) worker.InvocationResult {
		return worker.Failure(worker.RoleMarket, worker.FailureInvocation, "transient", 0)
	})

	require.True(t, result.Failed)
	assert.Equal(t, worker.FailureTimeout, result.Kind)
	assert.Less(t, time.Since(start), 10*time.Second, "cancellation must cut the backoff short")
}

func TestControllerAppliesAttemptTimeout(t *testing.T) {
	c := NewController(1, time.Millisecond, 20*time.Millisecond, nil)

	result := c.Do(context.Background(), worker.RoleExploration, func(ctx context.Context) worker.InvocationResult {
		select {
		case <-ctx.Done():
			return worker.Failure(worker.RoleExploration, worker.FailureTimeout, ctx.Err().Error(), 0)
		case <-time.After(5 * time.Second):
			return worker.Success(worker.RoleExploration, "too late", 0)
		}
	})

	require.True(t, result.Failed)
	assert.Equal(t, worker.FailureTimeout, result.Kind)
}

func TestNewControllerClampsAttempts(t *testing.T) {
	c := NewController(0, time.Second, 0, nil)
	assert.Equal(t, 1, c.MaxAttempts)
}
