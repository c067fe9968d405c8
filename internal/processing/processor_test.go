package processing

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/inference"
	"github.com/skillsenselab/meetstream/internal/logger"
)

type fakeTranscriber struct {
	payload inference.Payload
	err     error
}

func (f *fakeTranscriber) Name() string                       { return "fake-transcriber" }
func (f *fakeTranscriber) IsAvailable(_ context.Context) bool { return true }
func (f *fakeTranscriber) Run(_ context.Context, audio io.Reader) (inference.Payload, error) {
	// Consume the stream so the double-read behavior is exercised.
	_, _ = io.Copy(io.Discard, audio)
	return f.payload, f.err
}
func (f *fakeTranscriber) StreamRun(ctx context.Context, audio io.Reader) (<-chan inference.Payload, <-chan error) {
	return inference.StreamOnce(ctx, func(ctx context.Context) (inference.Payload, error) {
		return f.Run(ctx, audio)
	})
}

type fakeDiarizer struct {
	payload inference.Payload
	err     error
}

func (f *fakeDiarizer) Name() string                       { return "fake-diarizer" }
func (f *fakeDiarizer) IsAvailable(_ context.Context) bool { return true }
func (f *fakeDiarizer) Run(_ context.Context, audio io.Reader) (inference.Payload, error) {
	_, _ = io.Copy(io.Discard, audio)
	return f.payload, f.err
}
func (f *fakeDiarizer) StreamRun(ctx context.Context, audio io.Reader) (<-chan inference.Payload, <-chan error) {
	return inference.StreamOnce(ctx, func(ctx context.Context) (inference.Payload, error) {
		return f.Run(ctx, audio)
	})
}

type fakeSummarizer struct {
	payload inference.Payload
	err     error
	gotText string
}

func (f *fakeSummarizer) Name() string                       { return "fake-summarizer" }
func (f *fakeSummarizer) IsAvailable(_ context.Context) bool { return true }
func (f *fakeSummarizer) Run(_ context.Context, text string) (inference.Payload, error) {
	f.gotText = text
	return f.payload, f.err
}
func (f *fakeSummarizer) StreamRun(ctx context.Context, text string) (<-chan inference.Payload, <-chan error) {
	return inference.StreamOnce(ctx, func(ctx context.Context) (inference.Payload, error) {
		return f.Run(ctx, text)
	})
}

func countingOpener(opens *atomic.Int32) AudioOpener {
	return func(_ context.Context) (io.ReadCloser, error) {
		opens.Add(1)
		return io.NopCloser(strings.NewReader("RIFF....WAVE")), nil
	}
}

func testClients(tr *fakeTranscriber, di *fakeDiarizer, su *fakeSummarizer) inference.Clients {
	return inference.Clients{Transcriber: tr, Diarizer: di, Summarizer: su}
}

func TestProcessor_Process_MergesEvents(t *testing.T) {
	transcriber := &fakeTranscriber{payload: inference.Payload{
		"segments": []any{
			map[string]any{"start": 0.0, "end": 1.0, "text": "Hello", "confidence": 0.95},
			map[string]any{"start": 1.0, "end": 2.0, "text": "World", "confidence": 0.9},
		},
	}}
	diarizer := &fakeDiarizer{payload: inference.Payload{
		"segments": []any{
			map[string]any{"start": 0.0, "end": 1.0, "speaker": "S1"},
			map[string]any{"start": 1.0, "end": 2.0, "speaker": "S2"},
		},
	}}
	summarizer := &fakeSummarizer{payload: inference.Payload{
		"summary":   "A greeting.",
		"fragments": []any{"greeting", "subject"},
	}}

	var opens atomic.Int32
	p := NewProcessor(testClients(transcriber, diarizer, summarizer), logger.NewDefault("test"))
	result, err := p.Process(context.Background(), countingOpener(&opens))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opens.Load() != 2 {
		t.Errorf("expected 2 independent audio reads, got %d", opens.Load())
	}
	if len(result.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result.Events))
	}

	first := result.Events[0]
	if first.Speaker != "S1" || first.Text != "Hello" {
		t.Errorf("unexpected first event: %+v", first)
	}
	if first.SummaryFragment != "greeting" {
		t.Errorf("expected fragment 'greeting', got %q", first.SummaryFragment)
	}
	if first.Confidence == nil || *first.Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %v", first.Confidence)
	}

	second := result.Events[1]
	if second.Speaker != "S2" || second.Text != "World" {
		t.Errorf("unexpected second event: %+v", second)
	}

	if result.Summary != "A greeting." {
		t.Errorf("expected summary 'A greeting.', got %q", result.Summary)
	}
	if summarizer.gotText != "Hello World" {
		t.Errorf("expected summarizer input 'Hello World', got %q", summarizer.gotText)
	}
}

func TestProcessor_Process_EmptyTranscriptSkipsSummarizer(t *testing.T) {
	transcriber := &fakeTranscriber{payload: inference.Payload{}}
	diarizer := &fakeDiarizer{payload: inference.Payload{}}
	summarizer := &fakeSummarizer{err: errors.New("should not be called")}

	var opens atomic.Int32
	p := NewProcessor(testClients(transcriber, diarizer, summarizer), logger.NewDefault("test"))
	result, err := p.Process(context.Background(), countingOpener(&opens))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Events) != 0 {
		t.Errorf("expected no events, got %d", len(result.Events))
	}
	if result.Summary != "" {
		t.Errorf("expected empty summary, got %q", result.Summary)
	}
}

func TestProcessor_Process_TranscriberFailure(t *testing.T) {
	transcriber := &fakeTranscriber{err: errors.New("boom")}
	diarizer := &fakeDiarizer{payload: inference.Payload{}}
	summarizer := &fakeSummarizer{}

	var opens atomic.Int32
	p := NewProcessor(testClients(transcriber, diarizer, summarizer), logger.NewDefault("test"))
	_, err := p.Process(context.Background(), countingOpener(&opens))
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeUpstreamFailure {
		t.Errorf("expected UPSTREAM_FAILURE, got %v", err)
	}
	if appErr.Details["service"] != "transcription" {
		t.Errorf("expected service=transcription, got %v", appErr.Details["service"])
	}
}

func TestProcessor_Process_SummarizerFailure(t *testing.T) {
	transcriber := &fakeTranscriber{payload: inference.Payload{"text": "Hello"}}
	diarizer := &fakeDiarizer{payload: inference.Payload{}}
	summarizer := &fakeSummarizer{err: errors.New("llm down")}

	var opens atomic.Int32
	p := NewProcessor(testClients(transcriber, diarizer, summarizer), logger.NewDefault("test"))
	_, err := p.Process(context.Background(), countingOpener(&opens))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Details["service"] != "summarization" {
		t.Errorf("expected summarization failure, got %v", err)
	}
}

func TestProcessor_Process_OpenerFailure(t *testing.T) {
	transcriber := &fakeTranscriber{payload: inference.Payload{}}
	diarizer := &fakeDiarizer{payload: inference.Payload{}}
	summarizer := &fakeSummarizer{}

	p := NewProcessor(testClients(transcriber, diarizer, summarizer), logger.NewDefault("test"))
	_, err := p.Process(context.Background(), func(_ context.Context) (io.ReadCloser, error) {
		return nil, errors.New("no audio")
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
