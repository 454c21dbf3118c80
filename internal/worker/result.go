package worker

import (
	"time"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// FailureKind classifies why an invocation failed.
type FailureKind string

const (
	FailureInvocation   FailureKind = "invocation"
	FailureConstruction FailureKind = "construction"
	FailureTimeout      FailureKind = "timeout"
	FailurePanic        FailureKind = "panic"
)

// InvocationResult is the tagged outcome of one worker invocation. Every
// adapter call produces one; errors never propagate past the adapter
// boundary.
type InvocationResult struct {
	Role    Role          `json:"role"`
	Text    string        `json:"text,omitempty"`
	Failed  bool          `json:"failed"`
	Kind    FailureKind   `json:"kind,omitempty"`
	Message string        `json:"message,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Success creates a successful result for the role.
func Success(role Role, text string, elapsed time.Duration) InvocationResult {
	return InvocationResult{
		Role:    role,
		Text:    text,
		Elapsed: elapsed,
	}
}

// Failure creates a failed result for the role.
func Failure(role Role, kind FailureKind, message string, elapsed time.Duration) InvocationResult {
	return InvocationResult{
		Role:    role,
		Failed:  true,
		Kind:    kind,
		Message: message,
		Elapsed: elapsed,
	}
}

// FailureFromError creates a failed result from an error, classifying
// construction and timeout failures by error code.
func FailureFromError(role Role, err error, elapsed time.Duration) InvocationResult {
	kind := FailureInvocation
	switch types.CodeOf(err) {
	case types.WORKER_CONSTRUCTION_FAILED:
		kind = FailureConstruction
	case types.WORKER_TIMEOUT:
		kind = FailureTimeout
	}
	return Failure(role, kind, err.Error(), elapsed)
}

// OK reports whether the invocation succeeded.
func (r InvocationResult) OK() bool {
	return !r.Failed
}

// Retryable reports whether the failure is worth another attempt.
// Construction failures are terminal: retrying cannot repair a missing data
// source or credential.
func (r InvocationResult) Retryable() bool {
	return r.Failed && r.Kind != FailureConstruction
}
