package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrAuth indicates the provider rejected the credentials (401 or 403).
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("LLM provider rejected the API key: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// Retryable reports whether err is worth another attempt. Cancellation,
// truncation and rejected keys never are; invalid responses are, but callers limit how
// often.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		maxTok *ErrMaxTokensExceeded
		auth   *ErrAuth
	)
	return !errors.As(err, &maxTok) && !errors.As(err, &auth)
}

// Describe turns a provider error into a short message for the user.
func Describe(err error) string {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		invalid *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
		auth    *ErrAuth
	)
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "No LLM provider is configured."
	case errors.As(err, &auth):
		return "The LLM provider rejected the API key. Check the key in your environment."
	case errors.Is(err, context.DeadlineExceeded):
		return "The LLM provider took too long to answer."
	case errors.As(err, &rl):
		return "The LLM provider is rate limiting requests. Try again shortly."
	case errors.As(err, &unavail):
		return "The LLM provider is unavailable right now."
	case errors.As(err, &maxTok):
		return "The answer was cut off. Try a shorter file or fewer questions."
	case errors.As(err, &invalid):
		return "The LLM returned an answer in the wrong shape."
	}
	return err.Error()
}
