package testsupport

import (
	"path/filepath"
	"testing"

	"fpexport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Store.Path = filepath.Join(base, "data", "results.db")
	cfg.Export.AudioExtensions = []string{".mp3", ".wav", ".flac"}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithExportMode sets the default export mode on the test config.
func WithExportMode(mode string) ConfigOption {
	return func(c *config.Config) {
		c.Export.Mode = mode
	}
}

// WithCacheSize overrides the result store cache size.
func WithCacheSize(size int) ConfigOption {
	return func(c *config.Config) {
		c.Store.CacheSize = size
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
