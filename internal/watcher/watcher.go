// Package watcher discovers new recordings and feeds them through the
// pipeline exactly once. The Drive poll loop and the optional local
// inbox both funnel into the same processor and registry.
package watcher

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"voxum/internal/logging"
	"voxum/internal/media"
	"voxum/internal/pipeline"
)

// Candidate is a discovered file that may need processing.
type Candidate struct {
	ID       string
	Name     string
	MIMEType string
	Size     int64
}

// Source lists candidates and fetches their content.
type Source interface {
	List(ctx context.Context) ([]Candidate, error)
	Fetch(ctx context.Context, c Candidate) ([]byte, error)
}

// Processor runs the pipeline for one input.
type Processor interface {
	Process(ctx context.Context, in pipeline.Input) pipeline.Outcome
}

// Registry records which inputs have completed.
type Registry interface {
	Contains(id string) bool
	Mark(id string) error
}

// Watcher polls a source on an interval and processes unseen audio
// files sequentially.
type Watcher struct {
	source      Source
	processor   Processor
	registry    Registry
	interval    time.Duration
	listTimeout time.Duration
	logger      *slog.Logger
	busy        atomic.Bool
}

// New constructs a poll watcher. listTimeout bounds the listing call
// only; processing runs under the loop context.
func New(source Source, processor Processor, registry Registry, interval, listTimeout time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		source:      source,
		processor:   processor,
		registry:    registry,
		interval:    interval,
		listTimeout: listTimeout,
		logger:      logging.NewComponentLogger(logger, "watcher"),
	}
}

// Run polls until the context is canceled. The first cycle starts
// immediately rather than waiting one interval.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watch loop started",
		logging.Duration("interval", w.interval))

	w.RunCycle(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch loop stopped")
			return ctx.Err()
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle executes one discovery cycle. It reports false when a prior
// cycle is still in flight; overlapping ticks are skipped, never queued.
func (w *Watcher) RunCycle(ctx context.Context) bool {
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Debug("previous cycle still running, skipping tick")
		return false
	}
	defer w.busy.Store(false)
	w.cycle(ctx)
	return true
}

func (w *Watcher) cycle(ctx context.Context) {
	listCtx := ctx
	if w.listTimeout > 0 {
		var cancel context.CancelFunc
		listCtx, cancel = context.WithTimeout(ctx, w.listTimeout)
		defer cancel()
	}
	candidates, err := w.source.List(listCtx)
	if err != nil {
		w.logger.Warn("listing failed, retrying next cycle",
			logging.Error(err))
		return
	}

	pending := 0
	for _, c := range candidates {
		if ctx.Err() != nil {
			return
		}
		if !media.IsAudio(c.MIMEType, c.Name) {
			continue
		}
		if w.registry.Contains(c.ID) {
			continue
		}
		pending++
		w.processOne(ctx, c)
	}
	if pending > 0 {
		w.logger.Info("cycle complete",
			logging.Int("discovered", len(candidates)),
			logging.Int("processed", pending))
	}
}

func (w *Watcher) processOne(ctx context.Context, c Candidate) {
	logger := w.logger.With(logging.String(logging.FieldInputID, c.ID))
	logger.Info("new recording discovered",
		logging.String("name", c.Name),
		logging.Int64("bytes", c.Size))

	audio, err := w.source.Fetch(ctx, c)
	if err != nil {
		logger.Warn("download failed, will retry next cycle",
			logging.Error(err))
		return
	}

	outcome := w.processor.Process(ctx, pipeline.Input{
		ID:       c.ID,
		Name:     c.Name,
		MIMEType: c.MIMEType,
		Size:     c.Size,
		Audio:    audio,
	})
	if !outcome.OK {
		if failed, ok := outcome.FailedStage(); ok {
			logger.Warn("processing failed, will retry next cycle",
				logging.String("stage", failed.Name),
				logging.String("kind", string(failed.Kind)),
				logging.String("reason", failed.Message))
		}
		return
	}
	if err := w.registry.Mark(c.ID); err != nil {
		logger.Error("failed to record completion, input may be reprocessed",
			logging.Error(err))
	}
}
