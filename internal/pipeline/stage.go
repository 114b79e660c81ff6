package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voxum/internal/logging"
	"voxum/internal/services"
)

// Capability is one external service operation wrapped by a stage.
type Capability[In, Out any] func(ctx context.Context, in In) (Out, error)

// Stage wraps exactly one capability call with uniform timing, timeout, and
// failure classification. The capability is attempted exactly once; retries,
// if any, belong to the capability implementation.
type Stage[In, Out any] struct {
	Name    string
	Timeout time.Duration
	Call    Capability[In, Out]
}

// Run invokes the stage's capability once and converts the result into a
// StageResult. One diagnostic log line is emitted per invocation; it never
// affects control flow.
func (s Stage[In, Out]) Run(ctx context.Context, logger *slog.Logger, in In) StageResult[Out] {
	stageCtx := services.WithStage(ctx, s.Name)
	stageLogger := logging.WithContext(stageCtx, logger)

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(stageCtx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	value, err := s.invoke(stageCtx, in)
	elapsed := time.Since(start)

	if err != nil {
		result := StageResult[Out]{
			Kind:    KindForError(err),
			Message: err.Error(),
			Elapsed: elapsed,
		}
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("outcome", string(result.Kind)),
			logging.Duration("elapsed", elapsed),
			logging.Error(err))
		return result
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("outcome", "success"),
		logging.Duration("elapsed", elapsed))
	return StageResult[Out]{Value: value, Elapsed: elapsed}
}

// invoke contains a capability panic as an error so a misbehaving backend
// cannot take down the watcher loop.
func (s Stage[In, Out]) invoke(ctx context.Context, in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("capability %s panicked: %v", s.Name, r)
		}
	}()
	return s.Call(ctx, in)
}
