// Package pyannote implements inference.Diarizer using a pyannote HTTP sidecar.
package pyannote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/skillsenselab/meetstream/internal/inference"
)

const (
	// ProviderName is the registered name for the Pyannote provider.
	ProviderName = "pyannote"

	defaultURL     = "http://localhost:8388"
	defaultTimeout = 300 * time.Second
)

// Config holds configuration for the Pyannote diarization provider.
type Config struct {
	URL         string        `yaml:"url" mapstructure:"url"`
	NumSpeakers int           `yaml:"num_speakers" mapstructure:"num_speakers"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Client calls the Pyannote sidecar over HTTP.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a new Pyannote diarization client.
func NewClient(cfg Config) *Client {
	cfg.ApplyDefaults()
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// IsAvailable checks if the Pyannote sidecar is reachable.
func (c *Client) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Run sends the audio stream to the Pyannote sidecar and returns the raw
// diarization payload. Speaker labels arrive already canonicalized by the
// sidecar and are passed through untouched.
func (c *Client) Run(ctx context.Context, audio io.Reader) (inference.Payload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	if c.cfg.NumSpeakers > 0 {
		_ = writer.WriteField("num_speakers", fmt.Sprintf("%d", c.cfg.NumSpeakers))
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/diarize", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("diarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarization error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload inference.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}
	return payload, nil
}

// StreamRun delivers the full diarization as a single chunk.
func (c *Client) StreamRun(ctx context.Context, audio io.Reader) (<-chan inference.Payload, <-chan error) {
	return inference.StreamOnce(ctx, func(ctx context.Context) (inference.Payload, error) {
		return c.Run(ctx, audio)
	})
}

var _ inference.Diarizer = (*Client)(nil)
