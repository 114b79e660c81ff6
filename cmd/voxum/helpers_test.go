package main

import (
	"context"
	"path/filepath"
	"testing"

	"voxum/internal/logging"
	"voxum/internal/testsupport"
)

func TestBuildPipelineWithoutDrive(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEmail("team@example.com", "voxum@example.com"))

	pipe, err := buildPipeline(context.Background(), cfg, logging.NewNop(), false)
	if err != nil {
		t.Fatalf("buildPipeline returned error: %v", err)
	}
	if pipe.orchestrator == nil {
		t.Fatal("expected an orchestrator")
	}
	if pipe.driveClient != nil {
		t.Fatal("expected no drive client without a folder")
	}
}

func TestBuildPipelineMissingDriveAuthIsBestEffort(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDriveFolder("folder-1"))
	cfg.Drive.ClientSecrets = filepath.Join(t.TempDir(), "missing.json")
	cfg.Drive.TokenPath = filepath.Join(t.TempDir(), "token.json")

	pipe, err := buildPipeline(context.Background(), cfg, logging.NewNop(), false)
	if err != nil {
		t.Fatalf("buildPipeline should degrade without drive auth, got %v", err)
	}
	if pipe.driveClient != nil {
		t.Fatal("expected drive client to be disabled")
	}

	if _, err := buildPipeline(context.Background(), cfg, logging.NewNop(), true); err == nil {
		t.Fatal("watch mode should require drive auth")
	}
}

func TestBuildPipelineRejectsUnknownProvider(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Summary.Provider = "anthropic"
	if _, err := buildPipeline(context.Background(), cfg, logging.NewNop(), false); err == nil {
		t.Fatal("expected error for unknown summary provider")
	}
}
