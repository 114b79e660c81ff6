package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestInboxProcessesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "existing.mp3"), []byte("existing audio"), 0o644); err != nil {
		t.Fatalf("seed inbox: %v", err)
	}

	processor := &fakeProcessor{}
	registry := newFakeRegistry()
	inbox := NewInbox(dir, processor, registry, nil, WithSettleDelay(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go inbox.Run(ctx)

	waitFor(t, 2*time.Second, func() bool {
		return registry.Contains("local:existing.mp3")
	})

	if err := os.WriteFile(filepath.Join(dir, "dropped.m4a"), []byte("new audio"), 0o644); err != nil {
		t.Fatalf("drop file: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		return registry.Contains("local:dropped.m4a")
	})

	ids := processor.processedIDs()
	if len(ids) != 2 {
		t.Fatalf("expected two processed inputs, got %v", ids)
	}
}

func TestInboxIgnoresNonAudioAndProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatalf("seed inbox: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "done.mp3"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("seed inbox: %v", err)
	}

	processor := &fakeProcessor{}
	registry := newFakeRegistry()
	registry.marked["local:done.mp3"] = true
	inbox := NewInbox(dir, processor, registry, nil, WithSettleDelay(0))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	inbox.Run(ctx)

	if got := processor.processedIDs(); len(got) != 0 {
		t.Fatalf("nothing should process, got %v", got)
	}
}
