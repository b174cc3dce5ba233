// Package config loads service configuration from an optional YAML file
// overlaid by SGAS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sgas/internal/blob"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Blob    blob.Config   `yaml:"blob"`
	Cleanup CleanupConfig `yaml:"cleanup"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// StorageConfig selects the record store.
type StorageConfig struct {
	Driver      StorageDriver `yaml:"driver"`
	SQLitePath  string        `yaml:"sqlite_path"`
	PostgresDSN string        `yaml:"postgres_dsn"`
}

// CleanupConfig configures the attachment cleanup retry queue.
type CleanupConfig struct {
	Queue       string        `yaml:"queue"` // memory or redis
	RedisURL    string        `yaml:"redis_url"`
	RedisKey    string        `yaml:"redis_key"`
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second, MaxUploadBytes: 32 << 20},
		Log:     LogConfig{Level: "info", Format: "json"},
		Storage: StorageConfig{Driver: StorageSQLite, SQLitePath: "sgas.db"},
		Blob:    blob.Config{Driver: blob.DriverFilesystem, FSRoot: "./blobdata"},
		Cleanup: CleanupConfig{Queue: "memory", Interval: 30 * time.Second, MaxAttempts: 5},
	}
}

// Load reads path (when non-empty and present), applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays SGAS_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = d
		}
	}
	num := func(name string, dst *int64) {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}

	str("SGAS_ADDR", &c.Server.Addr)
	dur("SGAS_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	num("SGAS_MAX_UPLOAD_BYTES", &c.Server.MaxUploadBytes)
	str("SGAS_LOG_LEVEL", &c.Log.Level)
	str("SGAS_LOG_FORMAT", &c.Log.Format)

	driver := string(c.Storage.Driver)
	str("SGAS_STORAGE_DRIVER", &driver)
	c.Storage.Driver = StorageDriver(driver)
	str("SGAS_SQLITE_PATH", &c.Storage.SQLitePath)
	str("SGAS_POSTGRES_DSN", &c.Storage.PostgresDSN)

	blobDriver := string(c.Blob.Driver)
	str("SGAS_BLOB_DRIVER", &blobDriver)
	c.Blob.Driver = blob.Driver(blobDriver)
	str("SGAS_BLOB_BASE_URL", &c.Blob.BaseURL)
	str("SGAS_BLOB_FS_ROOT", &c.Blob.FSRoot)
	str("SGAS_BLOB_S3_BUCKET", &c.Blob.S3.Bucket)
	str("SGAS_BLOB_S3_REGION", &c.Blob.S3.Region)
	str("SGAS_BLOB_S3_ENDPOINT", &c.Blob.S3.Endpoint)
	if v, ok := lookup("SGAS_BLOB_S3_PATH_STYLE"); ok && v != "" {
		c.Blob.S3.PathStyle = strings.EqualFold(v, "true")
	}

	str("SGAS_CLEANUP_QUEUE", &c.Cleanup.Queue)
	str("SGAS_REDIS_URL", &c.Cleanup.RedisURL)
	str("SGAS_CLEANUP_REDIS_KEY", &c.Cleanup.RedisKey)
	dur("SGAS_CLEANUP_INTERVAL", &c.Cleanup.Interval)
	attempts := int64(c.Cleanup.MaxAttempts)
	num("SGAS_CLEANUP_MAX_ATTEMPTS", &attempts)
	c.Cleanup.MaxAttempts = int(attempts)

	return errors.Join(errs...)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket required for s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
	}
	switch c.Cleanup.Queue {
	case "memory":
	case "redis":
		if c.Cleanup.RedisURL == "" {
			errs = append(errs, errors.New("cleanup.redis_url required for redis queue"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cleanup queue %q", c.Cleanup.Queue))
	}
	if c.Cleanup.Interval <= 0 {
		errs = append(errs, errors.New("cleanup.interval must be positive"))
	}
	if c.Cleanup.MaxAttempts < 1 {
		errs = append(errs, errors.New("cleanup.max_attempts must be at least 1"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
