package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skillsenselab/meetstream/internal/inference/fixture"
	"github.com/skillsenselab/meetstream/internal/inference/llmsum"
	"github.com/skillsenselab/meetstream/internal/inference/pyannote"
	"github.com/skillsenselab/meetstream/internal/inference/whisper"
	"github.com/skillsenselab/meetstream/internal/logger"
	"github.com/skillsenselab/meetstream/internal/storage"
	"github.com/skillsenselab/meetstream/internal/store"
	"github.com/skillsenselab/meetstream/internal/stream"
)

// Inference client modes.
const (
	InferenceModeHTTP    = "http"
	InferenceModeFixture = "fixture"
)

// Base holds service identity fields.
type Base struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// Server holds HTTP server settings.
type Server struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// MaxUploadBytes caps the size of an audio upload.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Inference selects and configures the model backends.
type Inference struct {
	// Mode selects real HTTP backends or canned fixture responses.
	Mode string `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=http fixture"`

	Whisper  whisper.Config  `yaml:"whisper" mapstructure:"whisper"`
	Pyannote pyannote.Config `yaml:"pyannote" mapstructure:"pyannote"`
	LLM      llmsum.Config   `yaml:"llm" mapstructure:"llm"`
	Fixture  fixture.Config  `yaml:"fixture" mapstructure:"fixture"`
}

// Stream holds delivery settings for the SSE endpoint.
type Stream struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" mapstructure:"heartbeat_interval"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// Config is the root configuration for the service.
type Config struct {
	Base      Base           `yaml:"base" mapstructure:"base"`
	Logger    logger.Config  `yaml:"logger" mapstructure:"logger"`
	Server    Server         `yaml:"server" mapstructure:"server"`
	Store     store.Config   `yaml:"store" mapstructure:"store"`
	Storage   storage.Config `yaml:"storage" mapstructure:"storage"`
	Inference Inference      `yaml:"inference" mapstructure:"inference"`
	Stream    Stream         `yaml:"stream" mapstructure:"stream"`
}

// ApplyDefaults fills in zero-valued fields across all sections.
func (c *Config) ApplyDefaults() {
	if c.Base.Name == "" {
		c.Base.Name = "meetstream"
	}
	if c.Base.Environment == "" {
		c.Base.Environment = "development"
	}
	if c.Base.Environment == "development" {
		c.Base.Debug = true
	}

	c.Logger.ApplyDefaults()

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 256 << 20
	}

	c.Store.ApplyDefaults()
	c.Storage.ApplyDefaults()

	if c.Inference.Mode == "" {
		c.Inference.Mode = InferenceModeHTTP
	}
	c.Inference.Whisper.ApplyDefaults()
	c.Inference.Pyannote.ApplyDefaults()
	c.Inference.LLM.ApplyDefaults()

	if c.Stream.HeartbeatInterval == 0 {
		c.Stream.HeartbeatInterval = stream.DefaultHeartbeatInterval
	}
	if c.Stream.IdleTimeout == 0 {
		c.Stream.IdleTimeout = stream.DefaultIdleTimeout
	}
}

// Validate checks struct tags and section-specific rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Inference.Mode == InferenceModeHTTP {
		if err := c.Inference.LLM.Validate(); err != nil {
			return err
		}
	}
	if c.Stream.HeartbeatInterval >= c.Stream.IdleTimeout {
		return fmt.Errorf("config: stream heartbeat_interval must be below idle_timeout")
	}
	return nil
}

// LoadConfig loads, defaults and validates the full service configuration.
func LoadConfig(opts ...Option) (*Config, error) {
	var cfg Config
	if err := Load(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
