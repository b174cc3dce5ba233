package blob

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"sgas/internal/infra/blob/fs"
	memorystore "sgas/internal/infra/blob/memory"
	infraS3 "sgas/internal/infra/blob/s3"
)

// Config selects and configures a blob backend.
type Config struct {
	Driver  Driver   `yaml:"driver"`
	BaseURL string   `yaml:"base_url"`
	FSRoot  string   `yaml:"fs_root"`
	S3      S3Config `yaml:"s3"`
}

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// Open constructs the configured backend. The filesystem driver is the default.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return fs.New(cfg.FSRoot, cfg.BaseURL)
	case DriverS3:
		s3cfg := cfg.S3
		if s3cfg.BaseURL == "" {
			s3cfg.BaseURL = cfg.BaseURL
		}
		return infraS3.New(ctx, s3cfg)
	case DriverMemory:
		return memorystore.New(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New("") }

// NewMockS3ForTests exposes the lightweight S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewKey returns a fresh object key under prefix for an uploaded filename.
func NewKey(prefix, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "file"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return strings.Trim(prefix, "/") + "/" + uuid.NewString() + "-" + name
}
