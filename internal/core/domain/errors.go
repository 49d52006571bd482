package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeUpstream              = "UPSTREAM_ERROR"
	ErrCodeDirectoryUnavailable  = "DIRECTORY_UNAVAILABLE"
	ErrCodeSecondaryDirectory    = "SECONDARY_DIRECTORY_ERROR"
	ErrCodeInvalidRequestPayload = "INVALID_REQUEST_PAYLOAD"
)

func NewValidationError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Err:     err,
	}
}

func NewInvalidPayloadError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidRequestPayload,
		Message: "request body must be a JSON object",
		Err:     err,
	}
}

// NewDirectoryUnavailableError is returned when every bank-code candidate and the local snapshot failed.
func NewDirectoryUnavailableError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeDirectoryUnavailable,
		Message: "bank directory unavailable from processor and local snapshot",
		Err:     err,
	}
}

// NewSecondaryDirectoryError is returned when the public bank listing could not be fetched.
// That listing has no fallback.
func NewSecondaryDirectoryError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeSecondaryDirectory,
		Message: "could not fetch public bank listing",
		Err:     err,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// UpstreamError is a non-2xx answer or a transport failure from the payout processor.
// StatusCode is zero when no response was received.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Body       json.RawMessage
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && len(e.Body) > 0:
		return fmt.Sprintf("upstream %s failed (status: %d): %s", e.Operation, e.StatusCode, string(e.Body))
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream %s failed (status: %d)", e.Operation, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("upstream %s failed: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("upstream %s failed", e.Operation)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func IsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	ok := errors.As(err, &upErr)
	return upErr, ok
}
