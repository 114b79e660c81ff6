// Package testsupport builds throwaway configurations for tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"voxum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. Email delivery is disabled so validation never requires
// recipient settings.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Transcription.APIKey = "test"
	cfg.Summary.APIKey = "test"
	cfg.Email.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithEmail enables email delivery on the test config.
func WithEmail(to, from string) ConfigOption {
	return func(c *config.Config) {
		c.Email.Enabled = true
		c.Email.To = to
		c.Email.From = from
	}
}

// WithDriveFolder sets the watched Drive folder on the test config.
func WithDriveFolder(folderID string) ConfigOption {
	return func(c *config.Config) {
		c.Drive.FolderID = folderID
	}
}

// WithInbox sets a local inbox directory on the test config.
func WithInbox(dir string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.InboxDir = dir
	}
}
