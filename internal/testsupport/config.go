// Package testsupport provides shared helpers for package tests: temp-dir
// backed configs, seeded catalogs, and synthetic FLAC files.
package testsupport

import (
	"path/filepath"
	"testing"

	"showtag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.Path = filepath.Join(base, "catalog.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithArtworkFolder registers an artwork search root for an artist
// abbreviation on the test config.
func WithArtworkFolder(abbrev string, dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Cover.ArtworkFolders == nil {
			b.cfg.Cover.ArtworkFolders = map[string][]string{}
		}
		b.cfg.Cover.ArtworkFolders[abbrev] = dirs
	}
}

// WithDefaultImage registers a fallback artwork image for an artist
// abbreviation on the test config.
func WithDefaultImage(abbrev, path string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Cover.DefaultImages == nil {
			b.cfg.Cover.DefaultImages = map[string]string{}
		}
		b.cfg.Cover.DefaultImages[abbrev] = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Catalog.Path)
}
