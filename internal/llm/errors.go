package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// LLM error codes follow the Market-Lens error pattern.
const (
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrInvalidRequest       types.ErrorCode = "LLM_INVALID_REQUEST"
	ErrInvalidMessage       types.ErrorCode = "LLM_INVALID_MESSAGE"
	ErrCompletionFailed     types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrTimeoutExceeded      types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrContextCanceled      types.ErrorCode = "LLM_CONTEXT_CANCELED"
	ErrNetworkFailed        types.ErrorCode = "LLM_NETWORK_FAILED"
)

// NewError creates a non-retryable LLM error.
func NewError(code types.ErrorCode, message string) *types.LensError {
	return types.NewError(code, message)
}

// NewAuthError creates an authentication error for the given provider.
func NewAuthError(provider string, cause error) *types.LensError {
	return types.WrapError(ErrProviderUnauthorized, "missing or invalid credentials for provider "+provider, cause)
}

// IsRetryable determines if an error is transient and may succeed on retry.
func IsRetryable(err error) bool {
	var lensErr *types.LensError
	if !errors.As(err, &lensErr) {
		return false
	}

	if lensErr.Retryable {
		return true
	}

	switch lensErr.Code {
	case ErrProviderRateLimited, ErrNetworkFailed, ErrTimeoutExceeded:
		return true
	default:
		return false
	}
}

// TranslateError maps an error returned by an underlying client library to
// a structured LensError, classifying rate limits, timeouts, and auth
// failures by message inspection since the libraries expose no typed errors.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return types.WrapError(ErrTimeoutExceeded, provider+" completion timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return types.WrapError(ErrContextCanceled, provider+" completion canceled", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return &types.LensError{
			Code:      ErrProviderRateLimited,
			Message:   provider + " rate limited",
			Retryable: true,
			Cause:     err,
		}
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401") || strings.Contains(msg, "api key"):
		return types.WrapError(ErrProviderUnauthorized, provider+" authorization failed", err)
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") || strings.Contains(msg, "timeout"):
		return &types.LensError{
			Code:      ErrNetworkFailed,
			Message:   provider + " network failure",
			Retryable: true,
			Cause:     err,
		}
	default:
		return types.WrapError(ErrCompletionFailed, provider+" completion failed", err)
	}
}
