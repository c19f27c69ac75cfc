package testsupport

import (
	"path/filepath"
	"testing"

	"crosscast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults a single "inbox" drop folder and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Uploads.SettleSeconds = 1
	cfg.Folders = []config.Folder{
		{
			Name:      "inbox",
			Dir:       filepath.Join(base, "inbox"),
			Platforms: []string{"archive"},
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithFolders replaces the drop folder layout on the test config.
func WithFolders(folders ...config.Folder) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Folders = folders
	}
}

// WithExpireDays sets the marker expiry window on the test config.
func WithExpireDays(days int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Uploads.ExpireDays = days
	}
}
