package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLensErrorFormatting(t *testing.T) {
	plain := NewError(DATA_QUERY_FAILED, "query failed")
	assert.Equal(t, "[DATA_QUERY_FAILED] query failed", plain.Error())

	wrapped := WrapError(DATA_LOAD_FAILED, "import failed", errors.New("disk full"))
	assert.Equal(t, "[DATA_LOAD_FAILED] import failed: disk full", wrapped.Error())
}

func TestLensErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(WORKER_CONSTRUCTION_FAILED, "construction failed", cause)

	assert.ErrorIs(t, err, cause)

	var lensErr *LensError
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &lensErr)
	assert.Equal(t, WORKER_CONSTRUCTION_FAILED, lensErr.Code)
}

func TestLensErrorIsMatchesByCode(t *testing.T) {
	a := NewError(SECTION_UNKNOWN, "first")
	b := NewError(SECTION_UNKNOWN, "different message")
	c := NewError(COMPILE_FAILED, "other code")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestCodeOf(t *testing.T) {
	err := WrapError(WORKER_TIMEOUT, "deadline", errors.New("x"))

	assert.Equal(t, WORKER_TIMEOUT, CodeOf(err))
	assert.Equal(t, WORKER_TIMEOUT, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestRetryableConstructors(t *testing.T) {
	assert.False(t, NewError(DATA_OPEN_FAILED, "m").Retryable)
	assert.True(t, NewRetryableError(WORKER_INVOCATION_FAILED, "m").Retryable)
	assert.False(t, WrapError(COMPILE_FAILED, "m", errors.New("c")).Retryable)
}
