package transcript

import (
	"context"
	"io"
	"strings"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/inference"
	"github.com/skillsenselab/meetstream/internal/processing"
	"github.com/skillsenselab/meetstream/internal/stream"
)

// Pipeline stage names used to tag streamed partial results.
const (
	StageTranscribe = "transcribe"
	StageDiarize    = "diarize"
	StageSummarize  = "summarize"
)

// StagePayload is one partial result from a pipeline stage.
type StagePayload struct {
	Stage string            `json:"stage"`
	Data  inference.Payload `json:"data"`
}

// StreamPipeline returns a producer that runs the pipeline stages in
// sequence, relaying each stage's partial payloads to the client as they
// arrive. Unlike StreamTranscript nothing is persisted; this is the live
// view of the raw inference output.
func (s *Service) StreamPipeline(meetingID string, clients inference.Clients) stream.Producer {
	return func(ctx context.Context, items chan<- stream.Item) error {
		if err := s.EnsureAudio(ctx, meetingID); err != nil {
			return err
		}
		open := s.opener(meetingID)

		var text strings.Builder
		collect := func(p inference.Payload) {
			appendChunkText(&text, p)
		}
		if err := s.relayAudioStage(ctx, items, StageTranscribe, open, clients.Transcriber.StreamRun, collect); err != nil {
			return err
		}
		if err := s.relayAudioStage(ctx, items, StageDiarize, open, clients.Diarizer.StreamRun, nil); err != nil {
			return err
		}

		input := strings.TrimSpace(text.String())
		if input == "" {
			return nil
		}
		payloads, errs := clients.Summarizer.StreamRun(ctx, input)
		return s.relay(ctx, items, StageSummarize, payloads, errs, nil)
	}
}

// relayAudioStage opens a fresh audio reader, runs one streaming stage over
// it, and forwards its payloads.
func (s *Service) relayAudioStage(
	ctx context.Context,
	items chan<- stream.Item,
	stage string,
	open processing.AudioOpener,
	run func(ctx context.Context, audio io.Reader) (<-chan inference.Payload, <-chan error),
	collect func(inference.Payload),
) error {
	audio, err := open(ctx)
	if err != nil {
		return apperrors.UpstreamFailure(stage, err)
	}
	defer audio.Close() //nolint:errcheck

	payloads, errs := run(ctx, audio)
	return s.relay(ctx, items, stage, payloads, errs, collect)
}

// relay forwards stage payloads until the payload channel closes, then
// checks the error channel.
func (s *Service) relay(
	ctx context.Context,
	items chan<- stream.Item,
	stage string,
	payloads <-chan inference.Payload,
	errs <-chan error,
	collect func(inference.Payload),
) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-payloads:
			if !ok {
				// Producers close both channels when done, so this
				// read never blocks indefinitely.
				if err := <-errs; err != nil {
					return apperrors.UpstreamFailure(stage, err)
				}
				return nil
			}
			if collect != nil {
				collect(p)
			}
			item := stream.Item{Event: stream.EventTypeStage, Data: StagePayload{Stage: stage, Data: p}}
			select {
			case items <- item:
			case <-ctx.Done():
				return nil
			}
		case err := <-errs:
			if err != nil {
				return apperrors.UpstreamFailure(stage, err)
			}
		}
	}
}

// appendChunkText pulls transcribed text out of a stage payload, whether the
// backend emits flat chunks or per-segment objects.
func appendChunkText(b *strings.Builder, p inference.Payload) {
	if text, ok := p["text"].(string); ok && strings.TrimSpace(text) != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.TrimSpace(text))
		return
	}
	seg, ok := p["segment"].(map[string]interface{})
	if !ok {
		return
	}
	if text, ok := seg["text"].(string); ok && strings.TrimSpace(text) != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.TrimSpace(text))
	}
}
