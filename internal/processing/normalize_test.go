package processing

import (
	"testing"

	"github.com/skillsenselab/meetstream/internal/inference"
)

func fp(v float64) *float64 { return &v }

func TestNormalizeTranscript_DropsMalformedEntries(t *testing.T) {
	payload := inference.Payload{
		"segments": []any{
			map[string]any{"start": 0.0, "end": 1.0, "text": "Hello"},
			map[string]any{"start": 1.0, "end": 2.0}, // no text
			"not a map",
			map[string]any{"start": 2.0, "end": 3.0, "text": "   "},
			map[string]any{"text": "no bounds"},
		},
	}

	segments := NormalizeTranscript(payload)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "Hello" {
		t.Errorf("expected 'Hello', got %q", segments[0].Text)
	}
	if segments[1].Text != "no bounds" {
		t.Errorf("expected 'no bounds', got %q", segments[1].Text)
	}
	if segments[1].Start != nil {
		t.Error("expected nil start for unbounded segment")
	}
}

func TestNormalizeTranscript_SortsByStartNilLast(t *testing.T) {
	payload := inference.Payload{
		"segments": []any{
			map[string]any{"text": "unbounded"},
			map[string]any{"start": 5.0, "text": "second"},
			map[string]any{"start": 1.0, "text": "first"},
		},
	}

	segments := NormalizeTranscript(payload)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].Text != "first" || segments[1].Text != "second" || segments[2].Text != "unbounded" {
		t.Errorf("wrong order: %q, %q, %q", segments[0].Text, segments[1].Text, segments[2].Text)
	}
}

func TestNormalizeTranscript_FallsBackToTopLevelText(t *testing.T) {
	payload := inference.Payload{
		"segments":   []any{"garbage"},
		"text":       "  whole transcript  ",
		"confidence": 0.9,
	}

	segments := NormalizeTranscript(payload)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "whole transcript" {
		t.Errorf("expected trimmed text, got %q", segments[0].Text)
	}
	if segments[0].Confidence == nil || *segments[0].Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", segments[0].Confidence)
	}
	if segments[0].Start != nil || segments[0].End != nil {
		t.Error("fallback segment should be unbounded")
	}
}

func TestNormalizeTranscript_EmptyPayload(t *testing.T) {
	if segments := NormalizeTranscript(inference.Payload{}); segments != nil {
		t.Errorf("expected nil, got %v", segments)
	}
}

func TestNormalizeTranscript_NumericCoercion(t *testing.T) {
	payload := inference.Payload{
		"segments": []any{
			map[string]any{"start": "1.5", "end": 3, "text": "mixed types"},
		},
	}

	segments := NormalizeTranscript(payload)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start == nil || *segments[0].Start != 1.5 {
		t.Errorf("expected start 1.5, got %v", segments[0].Start)
	}
	if segments[0].End == nil || *segments[0].End != 3.0 {
		t.Errorf("expected end 3, got %v", segments[0].End)
	}
}

func TestNormalizeDiarization_NoFallback(t *testing.T) {
	payload := inference.Payload{"text": "not a diarization payload"}
	if segments := NormalizeDiarization(payload); segments != nil {
		t.Errorf("expected nil, got %v", segments)
	}
}

func TestNormalizeDiarization_PreservesSpeakerLabels(t *testing.T) {
	payload := inference.Payload{
		"segments": []any{
			map[string]any{"start": 0.0, "end": 2.0, "speaker": "SPEAKER_00"},
			map[string]any{"start": 2.0, "end": 4.0, "speaker": "SPEAKER_01"},
			map[string]any{"start": 4.0, "end": 5.0}, // no speaker
		},
	}

	segments := NormalizeDiarization(payload)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Speaker != "SPEAKER_00" || segments[1].Speaker != "SPEAKER_01" {
		t.Errorf("labels altered: %q, %q", segments[0].Speaker, segments[1].Speaker)
	}
}

func TestBuildSummaryInput_JoinsSegmentTexts(t *testing.T) {
	payload := inference.Payload{
		"segments": []any{
			map[string]any{"text": " Hello "},
			map[string]any{"text": ""},
			map[string]any{"text": "World"},
		},
	}

	if got := BuildSummaryInput(payload); got != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", got)
	}
}

func TestBuildSummaryInput_FallsBackToText(t *testing.T) {
	payload := inference.Payload{"text": " just text "}
	if got := BuildSummaryInput(payload); got != "just text" {
		t.Errorf("expected 'just text', got %q", got)
	}
}

func TestBuildSummaryInput_Empty(t *testing.T) {
	if got := BuildSummaryInput(inference.Payload{}); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
