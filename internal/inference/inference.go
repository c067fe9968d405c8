// Package inference defines the contracts for the remote inference services
// consumed by the processing pipeline: speech-to-text, speaker diarization
// and text summarization.
//
// Responses are loosely typed: every backend returns a Payload whose fields
// are all optional. Structural validation happens downstream at the
// normalization boundary, never here.
package inference

import (
	"context"
	"io"
)

// Payload is the raw key/value structure returned by an inference call.
// It is transient: consumed once by the segment normalizer and never persisted.
type Payload map[string]any

// Provider is the minimal interface every inference backend implements.
type Provider interface {
	// Name returns the backend name.
	Name() string
	// IsAvailable checks if the backend is reachable.
	IsAvailable(ctx context.Context) bool
}

// Transcriber converts audio into a transcription payload, typically
// {"segments": [{start, end, text, confidence}], "text": "..."}.
type Transcriber interface {
	Provider

	// Run transcribes the full audio stream and returns the complete payload.
	Run(ctx context.Context, audio io.Reader) (Payload, error)

	// StreamRun yields transcription payload chunks as they are produced.
	// The returned channel is closed when the stream ends; a terminal error,
	// if any, is delivered on the error channel.
	StreamRun(ctx context.Context, audio io.Reader) (<-chan Payload, <-chan error)
}

// Diarizer attributes time ranges of audio to speakers, typically
// {"segments": [{start, end, speaker}]}.
type Diarizer interface {
	Provider

	// Run diarizes the full audio stream and returns the complete payload.
	Run(ctx context.Context, audio io.Reader) (Payload, error)

	// StreamRun yields diarization payload chunks as they are produced.
	StreamRun(ctx context.Context, audio io.Reader) (<-chan Payload, <-chan error)
}

// Summarizer reduces transcript text to a summary, typically
// {"summary": "...", "fragments": [...], "highlights": [...]}.
type Summarizer interface {
	Provider

	// Run summarizes the text and returns the complete payload.
	Run(ctx context.Context, text string) (Payload, error)

	// StreamRun yields summary payload chunks as they are produced.
	StreamRun(ctx context.Context, text string) (<-chan Payload, <-chan error)
}

// Clients bundles the three collaborators the pipeline fans out to.
type Clients struct {
	Transcriber Transcriber
	Diarizer    Diarizer
	Summarizer  Summarizer
}
