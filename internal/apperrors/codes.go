package apperrors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a referenced meeting or its audio asset does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUpstreamFailure indicates a transcription, diarization or
	// summarization call failed.
	ErrCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	// ErrCodePersistenceFailure indicates the persistence transaction could not commit.
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
	// ErrCodeInvalidInput indicates the request input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnsupportedMedia indicates an upload with an unsupported media type.
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstreamFailure:    true,
	ErrCodePersistenceFailure: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
