// Package store provides meeting persistence built on GORM: the meeting and
// transcript fragment models, their repositories, and the transactional
// coordinator that writes processing results.
package store

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skillsenselab/meetstream/internal/logger"
)

// Config contains database configuration.
type Config struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.DSN == "" {
		c.DSN = "meetstream.db"
	}
}

// Validate checks that the database configuration is usable.
func (c *Config) Validate() error {
	if c.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be sqlite (got: %s)", c.Driver)
	}
	return nil
}

// DB wraps a GORM database handle.
type DB struct {
	gormDB *gorm.DB
	log    *logger.Logger
}

// Open connects to the database and runs auto-migration for the meeting and
// fragment models.
func Open(cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{gormDB: gormDB, log: log.WithComponent("store")}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	db.log.Info("Database ready", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return db, nil
}

func (d *DB) migrate() error {
	for _, model := range []interface{}{&Meeting{}, &TranscriptFragment{}} {
		if err := d.gormDB.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PingContext verifies the database connection is alive.
func (d *DB) PingContext(ctx context.Context) error {
	sqlDB, err := d.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithContext returns a GORM session scoped to the given context.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.gormDB.WithContext(ctx)
}

// WithTransaction executes fn inside one database transaction.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gormDB.WithContext(ctx).Transaction(fn)
}
