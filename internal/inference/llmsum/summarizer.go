// Package llmsum implements inference.Summarizer on top of an
// OpenAI-compatible chat completions API.
//
// Long transcripts are reduced in stages: the text is split into overlapping
// chunks that fit the model's context window, each chunk is summarized
// independently, and a final pass merges the partial summaries into one
// cohesive result. Short transcripts are summarized in a single call.
package llmsum

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skillsenselab/meetstream/internal/inference"
)

const (
	// ProviderName is the registered name for the LLM summarizer.
	ProviderName = "llmsum"

	defaultChunkSize    = 6000
	defaultChunkOverlap = 400

	defaultSystemPrompt = "You are an assistant that writes concise meeting summaries."

	chunkPrompt = "Summarize the following meeting segment, highlighting action items, " +
		"decisions, and owner assignments."

	mergePrompt = "Produce a cohesive meeting summary based on the provided segment summaries. " +
		"Merge overlapping information, keep the timeline clear, and list actionable next steps."
)

// Config holds configuration for the LLM summarizer.
type Config struct {
	APIBase      string        `yaml:"api_base" mapstructure:"api_base"`
	APIKey       string        `yaml:"api_key" mapstructure:"api_key"`
	Model        string        `yaml:"model" mapstructure:"model"`
	Temperature  float64       `yaml:"temperature" mapstructure:"temperature"`
	SystemPrompt string        `yaml:"system_prompt" mapstructure:"system_prompt"`
	ChunkSize    int           `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap int           `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = defaultTemperature
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = defaultSystemPrompt
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = defaultChunkOverlap
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the summarizer configuration is usable.
func (c *Config) Validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("summarizer: api_base is required")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("summarizer: chunk_size must be positive (got: %d)", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("summarizer: chunk_overlap must not be negative (got: %d)", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("summarizer: chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Summarizer implements inference.Summarizer with chunked reduction.
type Summarizer struct {
	cfg       Config
	completer Completer
}

// NewSummarizer creates a summarizer backed by a chat completions client.
func NewSummarizer(cfg Config) (*Summarizer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Summarizer{cfg: cfg, completer: NewChatClient(cfg)}, nil
}

// NewSummarizerWith creates a summarizer with an explicit completer.
func NewSummarizerWith(cfg Config, completer Completer) (*Summarizer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Summarizer{cfg: cfg, completer: completer}, nil
}

// Name returns the provider name.
func (s *Summarizer) Name() string { return ProviderName }

// IsAvailable reports whether the summarizer can accept work. The chat API is
// only probed at call time, so a configured summarizer is always available.
func (s *Summarizer) IsAvailable(_ context.Context) bool { return true }

// Run summarizes text and returns the payload {"summary": ...}.
func (s *Summarizer) Run(ctx context.Context, text string) (inference.Payload, error) {
	summary, err := s.summarize(ctx, text, nil)
	if err != nil {
		return nil, err
	}
	return inference.Payload{"summary": summary}, nil
}

// StreamRun yields one payload per partial chunk summary, then the final
// merged summary as the last chunk. Single-chunk input yields one payload.
func (s *Summarizer) StreamRun(ctx context.Context, text string) (<-chan inference.Payload, <-chan error) {
	out := make(chan inference.Payload)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		emit := func(p inference.Payload) bool {
			select {
			case out <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		summary, err := s.summarize(ctx, text, func(partial string, index, total int) bool {
			return emit(inference.Payload{"summary": partial, "chunk": index, "of": total})
		})
		if err != nil {
			errc <- err
			return
		}
		emit(inference.Payload{"summary": summary})
	}()
	return out, errc
}

// summarize runs the chunked reduction. onPartial, when non-nil, observes each
// partial chunk summary; returning false stops early (context cancelled).
func (s *Summarizer) summarize(ctx context.Context, text string, onPartial func(partial string, index, total int) bool) (string, error) {
	source := strings.TrimSpace(text)
	if source == "" {
		return "", fmt.Errorf("summarizer: source text must not be empty")
	}

	chunks := SplitChunks(source, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(chunks) == 1 {
		return s.completer.Complete(ctx, s.cfg.SystemPrompt, chunks[0])
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := s.completer.Complete(ctx, s.cfg.SystemPrompt, chunkPrompt+"\n\n"+chunk)
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
		if onPartial != nil && !onPartial(partial, i+1, len(chunks)) {
			return "", ctx.Err()
		}
	}

	var combined strings.Builder
	for i, partial := range partials {
		if i > 0 {
			combined.WriteString("\n\n")
		}
		fmt.Fprintf(&combined, "Segment %d summary:\n%s", i+1, partial)
	}

	return s.completer.Complete(ctx, s.cfg.SystemPrompt, mergePrompt+"\n\n"+combined.String())
}

var _ inference.Summarizer = (*Summarizer)(nil)
