package storage

import (
	"fmt"

	"github.com/skillsenselab/meetstream/internal/logger"
)

// Factory creates a Storage implementation from its configuration. Backend
// packages register themselves in an init function.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var factories = make(map[string]Factory)

// RegisterFactory registers a backend factory under the given provider name.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New creates a Storage backend based on the config. The desired backend
// package must be imported (e.g. _ ".../storage/local") so its factory is
// registered.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	log.WithComponent("storage").Info("initializing storage", map[string]interface{}{
		"provider": cfg.Provider,
	})
	return f(cfg, log)
}
