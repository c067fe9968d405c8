package processing

import (
	"context"
	"io"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/inference"
	"github.com/skillsenselab/meetstream/internal/logger"
)

// AudioOpener returns an independent reader over the meeting's audio asset.
// The processor opens it once per inference service so that transcription and
// diarization each consume the full stream.
type AudioOpener func(ctx context.Context) (io.ReadCloser, error)

// Processor orchestrates the fan-out to transcription and diarization, the
// summarization reduction, and the merge into ordered meeting events.
type Processor struct {
	clients inference.Clients
	log     *logger.Logger
}

// NewProcessor creates a processor over the given collaborator bundle.
func NewProcessor(clients inference.Clients, log *logger.Logger) *Processor {
	return &Processor{
		clients: clients,
		log:     log.WithComponent("processor"),
	}
}

type payloadResult struct {
	payload inference.Payload
	err     error
}

// Process runs the full pipeline for one audio asset. Transcription and
// diarization run concurrently; summarization runs strictly after
// transcription since its input is the transcript text. Inference failures
// are not retried here and propagate to the caller.
func (p *Processor) Process(ctx context.Context, open AudioOpener) (*Result, error) {
	transcribeCh := make(chan payloadResult, 1)
	diarizeCh := make(chan payloadResult, 1)

	go func() {
		payload, err := p.runWithAudio(ctx, open, func(ctx context.Context, audio io.Reader) (inference.Payload, error) {
			return p.clients.Transcriber.Run(ctx, audio)
		})
		transcribeCh <- payloadResult{payload, err}
	}()
	go func() {
		payload, err := p.runWithAudio(ctx, open, func(ctx context.Context, audio io.Reader) (inference.Payload, error) {
			return p.clients.Diarizer.Run(ctx, audio)
		})
		diarizeCh <- payloadResult{payload, err}
	}()

	transcribe := <-transcribeCh
	diarize := <-diarizeCh
	if transcribe.err != nil {
		return nil, apperrors.UpstreamFailure("transcription", transcribe.err)
	}
	if diarize.err != nil {
		return nil, apperrors.UpstreamFailure("diarization", diarize.err)
	}

	transcriptSegments := NormalizeTranscript(transcribe.payload)
	diarizationSegments := NormalizeDiarization(diarize.payload)

	summaryInput := BuildSummaryInput(transcribe.payload)
	summaryPayload := inference.Payload{}
	if summaryInput != "" {
		payload, err := p.clients.Summarizer.Run(ctx, summaryInput)
		if err != nil {
			return nil, apperrors.UpstreamFailure("summarization", err)
		}
		summaryPayload = payload
	}

	fragments := BuildSummaryFragments(summaryPayload, len(transcriptSegments))

	events := make([]MeetingEvent, 0, len(transcriptSegments))
	for i, segment := range transcriptSegments {
		fragment := ""
		if i < len(fragments) {
			fragment = fragments[i]
		}
		events = append(events, MeetingEvent{
			Speaker:         ResolveSpeaker(segment, diarizationSegments),
			Text:            segment.Text,
			Confidence:      segment.Confidence,
			SummaryFragment: fragment,
			Start:           segment.Start,
			End:             segment.End,
		})
	}

	p.log.Debug("Processing run complete", map[string]interface{}{
		"events":   len(events),
		"speakers": len(diarizationSegments),
	})

	return &Result{
		Events:  events,
		Summary: ExtractSummary(summaryPayload, fragments),
	}, nil
}

// runWithAudio opens a fresh audio reader for one inference call and closes
// it when the call returns.
func (p *Processor) runWithAudio(ctx context.Context, open AudioOpener, run func(ctx context.Context, audio io.Reader) (inference.Payload, error)) (inference.Payload, error) {
	audio, err := open(ctx)
	if err != nil {
		return nil, err
	}
	defer audio.Close()
	return run(ctx, audio)
}
