// Package config loads service configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the service's environment variables, e.g.
// MEETSTREAM_SERVER_PORT maps to server.port.
const EnvPrefix = "MEETSTREAM"

// Loader holds optional explicit file paths. Zero value searches standard
// locations.
type Loader struct {
	ConfigFile string
	EnvFile    string
}

// Option is a functional option for Load.
type Option func(*Loader)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(l *Loader) { l.EnvFile = path }
}

// Load reads configuration into cfg: YAML file first, then a .env file, then
// process environment variables, each layer overriding the previous one.
// Missing files are not an error.
func Load(cfg interface{}, opts ...Option) error {
	var l Loader
	for _, opt := range opts {
		opt(&l)
	}

	if l.EnvFile == "" {
		l.EnvFile = findFirst(".env", "config/.env")
	}
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "config: warning: failed to load %s: %v\n", l.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.ConfigFile == "" {
		l.ConfigFile = findFirst("config.yml", "config/config.yml", "cmd/meetstream/config.yml")
	}
	if l.ConfigFile != "" {
		v.SetConfigFile(l.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", l.ConfigFile, err)
		}
	}

	// AutomaticEnv alone does not surface prefixed variables for keys absent
	// from the config file, so bind them explicitly.
	bindEnvOverrides(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return nil
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// bindEnvOverrides maps MEETSTREAM_* environment variables onto nested viper
// keys, e.g. MEETSTREAM_STORE_DSN becomes store.dsn with progressive nesting
// variants for multi-word sections.
func bindEnvOverrides(v *viper.Viper) {
	prefix := EnvPrefix + "_"
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(pair[0], prefix))
		for _, variant := range keyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// keyVariants generates the nested key forms an underscore-separated env key
// may refer to: server_port yields [server_port, server.port], and
// inference_whisper_chunk_size yields every split point so snake_case leaf
// names still resolve.
func keyVariants(key string) []string {
	parts := strings.Split(key, "_")
	if len(parts) <= 1 {
		return []string{key}
	}
	variants := []string{key, strings.ReplaceAll(key, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
