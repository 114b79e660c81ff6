package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("EMAIL_TO", "team@example.com")
	t.Setenv("EMAIL_FROM", "voxum@example.com")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported as absent")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Transcription.Model != "whisper-1" {
		t.Fatalf("unexpected default transcription model: %q", cfg.Transcription.Model)
	}
	if cfg.Watcher.PollInterval != 60 {
		t.Fatalf("unexpected default poll interval: %d", cfg.Watcher.PollInterval)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	t.Setenv("EMAIL_TO", "team@example.com")
	t.Setenv("EMAIL_FROM", "voxum@example.com")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
state_dir = "` + dir + `/state"

[summary]
provider = "gemini"
model = "gemini-2.0-flash"

[watcher]
poll_interval = 15
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Summary.Provider != "gemini" {
		t.Fatalf("unexpected provider: %q", cfg.Summary.Provider)
	}
	if cfg.Watcher.PollInterval != 15 {
		t.Fatalf("unexpected poll interval: %d", cfg.Watcher.PollInterval)
	}
	if !filepath.IsAbs(cfg.Paths.StateDir) {
		t.Fatalf("expected absolute state dir, got %q", cfg.Paths.StateDir)
	}
	if cfg.RegistryPath() != filepath.Join(cfg.Paths.StateDir, "processed.json") {
		t.Fatalf("unexpected registry path: %q", cfg.RegistryPath())
	}
	if cfg.Drive.TokenPath != filepath.Join(cfg.Paths.StateDir, "token.json") {
		t.Fatalf("unexpected token path: %q", cfg.Drive.TokenPath)
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("EMAIL_TO", "team@example.com")
	t.Setenv("EMAIL_FROM", "voxum@example.com")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "folder-123")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Transcription.APIKey != "sk-test" {
		t.Fatalf("expected env api key, got %q", cfg.Transcription.APIKey)
	}
	if cfg.Drive.FolderID != "folder-123" {
		t.Fatalf("expected env folder id, got %q", cfg.Drive.FolderID)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.Summary.Provider = "mystery"
	cfg.Email.Enabled = false
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "summary.provider") {
		t.Fatalf("expected provider validation error, got %v", err)
	}
}

func TestValidateRequiresEmailAddresses(t *testing.T) {
	t.Setenv("EMAIL_TO", "")
	t.Setenv("EMAIL_FROM", "")
	cfg := Default()
	cfg.Summary.Provider = "openai"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "email.to") {
		t.Fatalf("expected email validation error, got %v", err)
	}
}

func TestValidateForWatchRequiresFolder(t *testing.T) {
	cfg := Default()
	cfg.Drive.FolderID = ""
	if err := cfg.ValidateForWatch(); err == nil {
		t.Fatal("expected error without drive folder")
	}
	cfg.Drive.FolderID = "abc"
	if err := cfg.ValidateForWatch(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[watcher]") {
		t.Fatal("expected sample to contain watcher section")
	}
}
