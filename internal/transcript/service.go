// Package transcript orchestrates meeting processing and exposes the results
// as streamable events.
package transcript

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/logger"
	"github.com/skillsenselab/meetstream/internal/processing"
	"github.com/skillsenselab/meetstream/internal/storage"
	"github.com/skillsenselab/meetstream/internal/store"
	"github.com/skillsenselab/meetstream/internal/stream"
)

// AudioKey returns the storage key for a meeting's audio.
func AudioKey(meetingID string) string {
	return fmt.Sprintf("%s.wav", meetingID)
}

// Service runs the processing pipeline for a meeting and persists the result.
type Service struct {
	processor   *processing.Processor
	meetings    *store.MeetingRepository
	coordinator *store.Coordinator
	audio       storage.Storage
	log         *logger.Logger
}

// NewService wires the transcript service.
func NewService(processor *processing.Processor, meetings *store.MeetingRepository, coordinator *store.Coordinator, audio storage.Storage, log *logger.Logger) *Service {
	return &Service{
		processor:   processor,
		meetings:    meetings,
		coordinator: coordinator,
		audio:       audio,
		log:         log.WithComponent("transcript"),
	}
}

// EnsureAudio verifies that audio exists in storage for the meeting.
func (s *Service) EnsureAudio(ctx context.Context, meetingID string) error {
	ok, err := s.audio.Exists(ctx, AudioKey(meetingID))
	if err != nil {
		return apperrors.Internal("check audio", err)
	}
	if !ok {
		return apperrors.AudioNotFound(meetingID)
	}
	return nil
}

// opener returns an AudioOpener that downloads a fresh reader per call, so
// concurrent pipeline stages each get their own stream over the audio.
func (s *Service) opener(meetingID string) processing.AudioOpener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		return s.audio.Download(ctx, AudioKey(meetingID))
	}
}

// StreamTranscript returns a stream producer that processes the meeting and
// emits one transcript item per event followed by a single summary item. The
// meeting is persisted before any item is emitted, so clients only ever see
// stored results.
func (s *Service) StreamTranscript(meetingID string) stream.Producer {
	return func(ctx context.Context, items chan<- stream.Item) error {
		id, err := uuid.Parse(meetingID)
		if err != nil {
			return apperrors.MeetingNotFound(meetingID)
		}
		if _, err := s.meetings.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.EnsureAudio(ctx, meetingID); err != nil {
			return err
		}
		if err := s.meetings.MarkProcessing(ctx, id); err != nil {
			return err
		}

		result, err := s.processor.Process(ctx, s.opener(meetingID))
		if err != nil {
			// A canceled stream is not a processing failure; leave the
			// meeting alone so a later run can pick it up.
			if ctx.Err() == nil {
				s.coordinator.MarkFailed(ctx, id)
			}
			return err
		}

		if err := s.coordinator.Persist(ctx, id, result); err != nil {
			return err
		}

		for _, event := range result.Events {
			item := stream.Item{Event: stream.EventTypeTranscript, Data: event}
			select {
			case items <- item:
			case <-ctx.Done():
				return nil
			}
		}

		summary := stream.Item{
			Event: stream.EventTypeSummary,
			Data:  map[string]string{"summary": result.Summary},
		}
		select {
		case items <- summary:
		case <-ctx.Done():
		}
		return nil
	}
}
