package api

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/inference"
	"github.com/skillsenselab/meetstream/internal/logger"
	"github.com/skillsenselab/meetstream/internal/storage"
	"github.com/skillsenselab/meetstream/internal/store"
	"github.com/skillsenselab/meetstream/internal/stream"
	"github.com/skillsenselab/meetstream/internal/transcript"
)

// MeetingHandler serves the meeting endpoints.
type MeetingHandler struct {
	meetings       *store.MeetingRepository
	fragments      *store.FragmentRepository
	audio          storage.Storage
	service        *transcript.Service
	clients        inference.Clients
	controller     *stream.Controller
	maxUploadBytes int64
	log            *logger.Logger
}

// NewMeetingHandler wires the meeting endpoints.
func NewMeetingHandler(
	meetings *store.MeetingRepository,
	fragments *store.FragmentRepository,
	audio storage.Storage,
	service *transcript.Service,
	clients inference.Clients,
	controller *stream.Controller,
	maxUploadBytes int64,
	log *logger.Logger,
) *MeetingHandler {
	return &MeetingHandler{
		meetings:       meetings,
		fragments:      fragments,
		audio:          audio,
		service:        service,
		clients:        clients,
		controller:     controller,
		maxUploadBytes: maxUploadBytes,
		log:            log.WithComponent("api.meeting"),
	}
}

type createMeetingRequest struct {
	Title string `json:"title" binding:"required"`
}

type meetingView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Status    string         `json:"status"`
	Summary   *string        `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Fragments []fragmentView `json:"fragments,omitempty"`
}

type fragmentView struct {
	Speaker   string     `json:"speaker"`
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp"`
	Position  int        `json:"position"`
}

func toMeetingView(m *store.Meeting, fragments []store.TranscriptFragment) meetingView {
	view := meetingView{
		ID:        m.ID.String(),
		Title:     m.Title,
		Status:    string(m.Status),
		Summary:   m.Summary,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, f := range fragments {
		view.Fragments = append(view.Fragments, fragmentView{
			Speaker:   f.Speaker,
			Text:      f.Text,
			Timestamp: f.Timestamp,
			Position:  f.Position,
		})
	}
	return view
}

// Create registers a meeting without audio. Audio is attached later via
// Upload or out of band.
func (h *MeetingHandler) Create(c *gin.Context) {
	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("A meeting title is required"))
		return
	}

	meeting := &store.Meeting{Title: strings.TrimSpace(req.Title)}
	if err := h.meetings.Create(c.Request.Context(), meeting); err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, toMeetingView(meeting, nil))
}

// Get returns a meeting with its stored transcript fragments.
func (h *MeetingHandler) Get(c *gin.Context) {
	id, err := parseMeetingID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	meeting, err := h.meetings.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	fragments, err := h.fragments.ListByMeeting(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, toMeetingView(meeting, fragments))
}

// Upload accepts a WAV file, stores it and creates a pending meeting. Any
// other media type is rejected with 415.
func (h *MeetingHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput("An audio file is required in the 'file' field"))
		return
	}
	defer file.Close() //nolint:errcheck

	if !isWAV(header.Header.Get("Content-Type"), header.Filename) {
		RespondWithError(c, apperrors.UnsupportedMedia("Only WAV audio is supported."))
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	meeting := &store.Meeting{Title: title}
	if err := h.meetings.Create(c.Request.Context(), meeting); err != nil {
		RespondWithError(c, err)
		return
	}

	key := transcript.AudioKey(meeting.ID.String())
	if err := h.audio.Upload(c.Request.Context(), key, file); err != nil {
		h.log.WithError(err).Error("audio upload failed", map[string]interface{}{
			logger.FieldMeetingID: meeting.ID.String(),
		})
		RespondWithError(c, apperrors.Internal("Failed to store audio", err))
		return
	}

	RespondCreated(c, gin.H{"meeting_id": meeting.ID.String()})
}

// isWAV accepts audio/wav and common aliases, comparing case-insensitively.
// The filename extension is a fallback for clients that send a generic type.
func isWAV(contentType, filename string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch strings.ToLower(mt) {
		case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
			return true
		case "application/octet-stream", "":
		default:
			return false
		}
	}
	return strings.EqualFold(filepath.Ext(filename), ".wav")
}

// Stream processes the meeting and delivers transcript events over SSE. Not
// found conditions are reported as plain JSON before the stream starts; once
// streaming, failures close the connection without an error event.
func (h *MeetingHandler) Stream(c *gin.Context) {
	id, err := parseMeetingID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if _, err := h.meetings.GetByID(c.Request.Context(), id); err != nil {
		RespondWithError(c, err)
		return
	}
	if err := h.service.EnsureAudio(c.Request.Context(), id.String()); err != nil {
		RespondWithError(c, err)
		return
	}

	h.serveStream(c, h.service.StreamTranscript(id.String()))
}

// Pipeline streams the raw per-stage inference output over SSE without
// persisting anything.
func (h *MeetingHandler) Pipeline(c *gin.Context) {
	id, err := parseMeetingID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if err := h.service.EnsureAudio(c.Request.Context(), id.String()); err != nil {
		RespondWithError(c, err)
		return
	}

	h.serveStream(c, h.service.StreamPipeline(id.String(), h.clients))
}

func (h *MeetingHandler) serveStream(c *gin.Context, produce stream.Producer) {
	writer, err := stream.NewWriter(c.Writer)
	if err != nil {
		RespondWithError(c, apperrors.Internal("Streaming not supported", err))
		return
	}

	// The protocol has no error event type. Failures happen before any item
	// is emitted, so the connection simply closes; the meeting status tells
	// the client what happened.
	if err := h.controller.Run(c.Request.Context(), writer, produce); err != nil {
		h.log.WithError(err).Error("stream ended with error", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
	}
}

func parseMeetingID(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.MeetingNotFound(raw)
	}
	return id, nil
}
