package storage

import "fmt"

// Provider names for the supported backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Config selects and configures the storage backend.
type Config struct {
	// Provider is the backend name: "local" or "s3".
	Provider string `mapstructure:"provider" json:"provider" validate:"omitempty,oneof=local s3"`

	// Local holds filesystem backend settings.
	Local LocalConfig `mapstructure:"local" json:"local"`

	// S3 holds S3 backend settings.
	S3 S3Config `mapstructure:"s3" json:"s3"`
}

// LocalConfig holds filesystem backend settings.
type LocalConfig struct {
	// BasePath is the directory audio objects are stored under.
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// S3Config holds S3 backend settings.
type S3Config struct {
	Bucket    string `mapstructure:"bucket" json:"bucket"`
	Region    string `mapstructure:"region" json:"region"`
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	AccessKey string `mapstructure:"access_key" json:"access_key"`
	SecretKey string `mapstructure:"secret_key" json:"secret_key"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	// Required for most S3-compatible services such as MinIO.
	ForcePathStyle bool `mapstructure:"force_path_style" json:"force_path_style"`
}

// DefaultS3Region is used when no region is configured.
const DefaultS3Region = "us-east-1"

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Local.BasePath == "" {
		c.Local.BasePath = "data/audio"
	}
	if c.S3.Region == "" {
		c.S3.Region = DefaultS3Region
	}
}

// Validate checks that the configuration is usable for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Local.BasePath == "" {
			return fmt.Errorf("storage: local base_path is required")
		}
	case ProviderS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("storage: s3 bucket is required")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("storage: s3 region is required")
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
