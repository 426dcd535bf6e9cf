package genai

import (
	"errors"
	"fmt"
)

// ErrorKind is the enumerated classification contract for failures of the
// generative content service. Handlers and the retry loop branch on the
// kind, never on error message text.
type ErrorKind string

const (
	// Retryable kinds
	KindRateLimited ErrorKind = "rate_limited"
	KindOverloaded  ErrorKind = "overloaded"
	KindTransient   ErrorKind = "transient"
	KindTimeout     ErrorKind = "timeout"

	// Terminal kinds
	KindBadCredentials   ErrorKind = "bad_credentials"
	KindMalformedRequest ErrorKind = "malformed_request"
	KindContentPolicy    ErrorKind = "content_policy"
	KindInvalidShape     ErrorKind = "invalid_shape"
	KindUnconfigured     ErrorKind = "unconfigured"
)

// Retryable reports whether a failure of this kind is worth retrying
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindRateLimited, KindOverloaded, KindTransient, KindTimeout:
		return true
	default:
		return false
	}
}

// ServiceError is a classified failure from the generative content service
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a classified service error
func NewServiceError(kind ErrorKind, message string, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Cause: cause}
}

// ErrNotConfigured is returned on first use when no API key is set
var ErrNotConfigured = &ServiceError{
	Kind:    KindUnconfigured,
	Message: "generative service client is not configured",
}

// ExhaustedRetriesError reports that the retry budget ran out. It carries
// the last underlying cause for diagnosis.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("exhausted %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Last
}

// IsRetryable reports whether err is classified as worth retrying.
// Unclassified errors are treated as terminal.
func IsRetryable(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind.Retryable()
	}
	return false
}

// IsTerminal reports whether err should fail immediately without retries
func IsTerminal(err error) bool {
	return err != nil && !IsRetryable(err)
}

// KindOf extracts the classification of err, or empty for unclassified errors
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}
