package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMeetingNotFound(t *testing.T) {
	err := MeetingNotFound("abc")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["meeting_id"] != "abc" {
		t.Errorf("expected meeting_id detail, got %v", err.Details)
	}
	if err.Retryable {
		t.Error("not found should not be retryable")
	}
}

func TestUpstreamFailure_Retryable(t *testing.T) {
	cause := errors.New("connection refused")
	err := UpstreamFailure("transcription", cause)
	if !err.Retryable {
		t.Error("upstream failures should be retryable")
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be in the error chain")
	}
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	err := PersistenceFailure(errors.New("disk full"))
	if got := err.Error(); got != fmt.Sprintf("%s: %s (cause: disk full)", ErrCodePersistenceFailure, err.Message) {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestAsAppError_WrappedChain(t *testing.T) {
	inner := MeetingNotFound("x")
	wrapped := fmt.Errorf("handling request: %w", inner)

	got := AsAppError(wrapped)
	if got == nil || got.Code != ErrCodeNotFound {
		t.Errorf("expected inner AppError, got %v", got)
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through wrapping")
	}
}

func TestHTTPStatus_DefaultsTo500(t *testing.T) {
	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}
	if got := HTTPStatus(UnsupportedMedia("nope")); got != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", got)
	}
}

func TestWithDetail(t *testing.T) {
	err := InvalidInput("bad").WithDetail("field", "title")
	if err.Details["field"] != "title" {
		t.Errorf("expected detail set, got %v", err.Details)
	}
}
