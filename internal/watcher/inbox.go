package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"voxum/internal/logging"
	"voxum/internal/media"
	"voxum/internal/pipeline"
)

const localIDPrefix = "local:"

// Inbox watches a local directory for dropped recordings and runs them
// through the same processor and registry as the Drive loop. Local
// files are keyed by name, so renaming a processed file makes it a new
// input.
type Inbox struct {
	dir       string
	processor Processor
	registry  Registry
	settle    time.Duration
	logger    *slog.Logger
}

// InboxOption configures the inbox.
type InboxOption func(*Inbox)

// WithSettleDelay overrides the pause between a create event and the
// read, which lets slow writers finish the file first.
func WithSettleDelay(d time.Duration) InboxOption {
	return func(i *Inbox) {
		if d >= 0 {
			i.settle = d
		}
	}
}

// NewInbox constructs a local directory watcher.
func NewInbox(dir string, processor Processor, registry Registry, logger *slog.Logger, opts ...InboxOption) *Inbox {
	inbox := &Inbox{
		dir:       dir,
		processor: processor,
		registry:  registry,
		settle:    500 * time.Millisecond,
		logger:    logging.NewComponentLogger(logger, "inbox"),
	}
	for _, opt := range opts {
		opt(inbox)
	}
	return inbox
}

// Run watches the inbox until the context is canceled. Files already
// present at startup are processed first.
func (i *Inbox) Run(ctx context.Context) error {
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start inbox watcher: %w", err)
	}
	defer fsWatcher.Close()
	if err := fsWatcher.Add(i.dir); err != nil {
		return fmt.Errorf("watch inbox dir: %w", err)
	}
	i.logger.Info("inbox watch started", logging.String("dir", i.dir))

	i.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			i.logger.Info("inbox watch stopped")
			return ctx.Err()
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if i.settle > 0 {
					time.Sleep(i.settle)
				}
				i.handle(ctx, event.Name)
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			i.logger.Warn("inbox watch error", logging.Error(err))
		}
	}
}

func (i *Inbox) scan(ctx context.Context) {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		i.logger.Warn("inbox scan failed", logging.Error(err))
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() {
			continue
		}
		i.handle(ctx, filepath.Join(i.dir, entry.Name()))
	}
}

func (i *Inbox) handle(ctx context.Context, path string) {
	name := filepath.Base(path)
	if !media.IsAudio("", name) {
		return
	}
	id := localIDPrefix + name
	if i.registry.Contains(id) {
		return
	}
	logger := i.logger.With(logging.String(logging.FieldInputID, id))

	audio, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("inbox file unreadable", logging.Error(err))
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("inbox file unreadable", logging.Error(err))
		return
	}

	logger.Info("inbox recording discovered", logging.String("name", name))
	outcome := i.processor.Process(ctx, pipeline.Input{
		ID:    id,
		Name:  name,
		Size:  info.Size(),
		Audio: audio,
	})
	if !outcome.OK {
		if failed, ok := outcome.FailedStage(); ok {
			logger.Warn("inbox processing failed",
				logging.String("stage", failed.Name),
				logging.String("reason", failed.Message))
		}
		return
	}
	if err := i.registry.Mark(id); err != nil {
		logger.Error("failed to record completion, input may be reprocessed",
			logging.Error(err))
	}
}
