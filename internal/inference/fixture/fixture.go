// Package fixture provides inference clients backed by JSON files. They stand
// in for the GPU sidecars in development mode and in tests.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/skillsenselab/meetstream/internal/inference"
)

// Config points each fixture client at its payload file.
type Config struct {
	TranscribePath string `yaml:"transcribe_path" mapstructure:"transcribe_path"`
	DiarizePath    string `yaml:"diarize_path" mapstructure:"diarize_path"`
	SummarizePath  string `yaml:"summarize_path" mapstructure:"summarize_path"`
}

// Client serves a fixed payload loaded from disk on every call.
type Client struct {
	name string
	path string
}

// NewClient creates a fixture client reading the payload at path.
func NewClient(name, path string) *Client {
	return &Client{name: name, path: path}
}

// NewClients builds the full collaborator bundle from fixture files.
func NewClients(cfg Config) inference.Clients {
	return inference.Clients{
		Transcriber: NewClient("transcribe-fixture", cfg.TranscribePath),
		Diarizer:    NewClient("diarize-fixture", cfg.DiarizePath),
		Summarizer:  NewTextClient("summarize-fixture", cfg.SummarizePath),
	}
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// IsAvailable reports whether the fixture file exists.
func (c *Client) IsAvailable(_ context.Context) bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *Client) load() (inference.Payload, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", c.path, err)
	}
	var payload inference.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", c.path, err)
	}
	return payload, nil
}

// Run returns the fixture payload. The audio reader is drained so callers
// observe the same consumption behavior as a real backend.
func (c *Client) Run(_ context.Context, audio io.Reader) (inference.Payload, error) {
	if audio != nil {
		_, _ = io.Copy(io.Discard, audio)
	}
	return c.load()
}

// StreamRun yields the fixture payload segment by segment when a segments list
// is present, otherwise the whole payload as a single chunk.
func (c *Client) StreamRun(ctx context.Context, audio io.Reader) (<-chan inference.Payload, <-chan error) {
	out := make(chan inference.Payload)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)

		payload, err := c.Run(ctx, audio)
		if err != nil {
			errc <- err
			return
		}

		segments, ok := payload["segments"].([]any)
		if !ok || len(segments) == 0 {
			select {
			case out <- payload:
			case <-ctx.Done():
				errc <- ctx.Err()
			}
			return
		}

		for _, seg := range segments {
			select {
			case out <- inference.Payload{"segment": seg}:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

// TextClient is the text-input variant used for the summarize fixture.
type TextClient struct {
	inner *Client
}

// NewTextClient creates a fixture summarizer reading the payload at path.
func NewTextClient(name, path string) *TextClient {
	return &TextClient{inner: NewClient(name, path)}
}

// Name returns the client name.
func (c *TextClient) Name() string { return c.inner.name }

// IsAvailable reports whether the fixture file exists.
func (c *TextClient) IsAvailable(ctx context.Context) bool { return c.inner.IsAvailable(ctx) }

// Run returns the fixture payload; the input text is ignored.
func (c *TextClient) Run(_ context.Context, _ string) (inference.Payload, error) {
	return c.inner.load()
}

// StreamRun yields the fixture payload as a single chunk.
func (c *TextClient) StreamRun(ctx context.Context, _ string) (<-chan inference.Payload, <-chan error) {
	return inference.StreamOnce(ctx, func(_ context.Context) (inference.Payload, error) {
		return c.inner.load()
	})
}

var (
	_ inference.Transcriber = (*Client)(nil)
	_ inference.Diarizer    = (*Client)(nil)
	_ inference.Summarizer  = (*TextClient)(nil)
)
