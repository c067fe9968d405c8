// Package apperrors provides structured error types with machine-readable
// codes and HTTP status mapping for the meetstream service.
//
// Malformed inference payloads are deliberately NOT represented here: the
// processing layer drops or defaults them silently instead of raising.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Common Error Constructors ---

// MeetingNotFound creates an AppError for a meeting that does not exist.
func MeetingNotFound(meetingID string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("Meeting %s not found", meetingID),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"meeting_id": meetingID},
	}
}

// AudioNotFound creates an AppError for a meeting whose audio asset is missing.
func AudioNotFound(meetingID string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("Meeting %s not found", meetingID),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"meeting_id": meetingID, "resource": "audio"},
	}
}

// UpstreamFailure creates an AppError for a failed inference call.
func UpstreamFailure(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUpstreamFailure, Message: fmt.Sprintf("The %s service failed", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service},
		Cause:   cause,
	}
}

// PersistenceFailure creates an AppError for a transaction that could not commit.
func PersistenceFailure(cause error) *AppError {
	return &AppError{
		Code: ErrCodePersistenceFailure, Message: "Failed to persist processing result",
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Cause: cause,
	}
}

// InvalidInput creates an AppError for invalid request input.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// UnsupportedMedia creates an AppError for an upload with a rejected media type.
func UnsupportedMedia(message string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedMedia, Message: message,
		HTTPStatus: http.StatusUnsupportedMediaType,
	}
}

// Internal creates an AppError for an unexpected internal failure.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// --- Inspection helpers ---

// AsAppError extracts an *AppError from err's chain, or nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	appErr := AsAppError(err)
	return appErr != nil && appErr.Code == ErrCodeNotFound
}

// HTTPStatus returns the recommended HTTP status for err, defaulting to 500.
func HTTPStatus(err error) int {
	if appErr := AsAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
