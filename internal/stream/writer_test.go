package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriter_Send_FormatsSSEFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = w.Send(Item{Event: EventTypeTranscript, Data: map[string]string{"text": "hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := rec.Body.String()
	if body != "event: transcript\ndata: {\"text\":\"hello\"}\n\n" {
		t.Errorf("unexpected frame: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}
}

func TestWriter_Heartbeat_IsComment(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Heartbeat(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Body.String(); got != ": heartbeat\n\n" {
		t.Errorf("unexpected heartbeat frame: %q", got)
	}
}

func TestNewWriter_RequiresFlusher(t *testing.T) {
	if _, err := NewWriter(nonFlushingWriter{}); err == nil {
		t.Error("expected error for non-flushing writer")
	}
}

// nonFlushingWriter implements http.ResponseWriter but not http.Flusher.
type nonFlushingWriter struct{}

func (nonFlushingWriter) Header() http.Header         { return http.Header{} }
func (nonFlushingWriter) Write(p []byte) (int, error) { return len(p), nil }
func (nonFlushingWriter) WriteHeader(int)             {}

func TestWriter_Send_MarshalsComplexData(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type event struct {
		Speaker string  `json:"speaker"`
		Start   float64 `json:"start"`
	}
	if err := w.Send(Item{Event: EventTypeSummary, Data: event{Speaker: "S1", Start: 1.5}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"speaker":"S1"`) {
		t.Errorf("payload not marshaled: %q", rec.Body.String())
	}
}
