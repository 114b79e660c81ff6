package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"voxum/internal/logging"
	"voxum/internal/services"
)

// Stage names as they appear in reports and logs.
const (
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StageDeliver    = "deliver"
)

// Transcriber converts audio bytes into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, in Input) (string, error)
}

// Summarizer converts transcript text into a structured summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (Summary, error)
}

// Deliverer publishes a summary (upload + notification).
type Deliverer interface {
	Deliver(ctx context.Context, req Delivery) (Receipt, error)
}

// Timeouts carries the optional per-stage deadlines. Zero disables the
// deadline for that stage.
type Timeouts struct {
	Transcribe time.Duration
	Summarize  time.Duration
	Deliver    time.Duration
}

// Orchestrator sequences the three pipeline stages for one input,
// short-circuiting on the first failure. It always returns an Outcome and
// never propagates a fault for a single-input run.
type Orchestrator struct {
	transcriber Transcriber
	summarizer  Summarizer
	deliverer   Deliverer
	timeouts    Timeouts
	logger      *slog.Logger
}

// NewOrchestrator wires the three capabilities into a pipeline.
func NewOrchestrator(t Transcriber, s Summarizer, d Deliverer, timeouts Timeouts, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		transcriber: t,
		summarizer:  s,
		deliverer:   d,
		timeouts:    timeouts,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process runs the full pipeline for one input. The success output of each
// stage becomes the next stage's input verbatim; any failure transitions the
// run to its terminal state with the remaining stages absent. Prior stage
// side effects are not rolled back.
func (o *Orchestrator) Process(ctx context.Context, in Input) Outcome {
	ctx = services.WithInputID(ctx, in.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, o.logger)

	start := time.Now()
	outcome := Outcome{InputID: in.ID}

	logger.Info("pipeline started",
		logging.String(logging.FieldEventType, "pipeline_start"),
		logging.String("input_name", in.Name),
		logging.Int64("input_bytes", in.Size))

	transcribeStage := Stage[Input, string]{
		Name:    StageTranscribe,
		Timeout: o.timeouts.Transcribe,
		Call:    o.transcriber.Transcribe,
	}
	transcribed := transcribeStage.Run(ctx, o.logger, in)
	outcome.Stages = append(outcome.Stages, transcribed.Report(StageTranscribe))
	if !transcribed.OK() {
		return o.finish(logger, outcome, start)
	}

	summarizeStage := Stage[string, Summary]{
		Name:    StageSummarize,
		Timeout: o.timeouts.Summarize,
		Call:    o.summarizer.Summarize,
	}
	summarized := summarizeStage.Run(ctx, o.logger, transcribed.Value)
	outcome.Stages = append(outcome.Stages, summarized.Report(StageSummarize))
	if !summarized.OK() {
		return o.finish(logger, outcome, start)
	}

	deliverStage := Stage[Delivery, Receipt]{
		Name:    StageDeliver,
		Timeout: o.timeouts.Deliver,
		Call:    o.deliverer.Deliver,
	}
	delivered := deliverStage.Run(ctx, o.logger, Delivery{
		Input:      in,
		Transcript: transcribed.Value,
		Summary:    summarized.Value,
	})
	outcome.Stages = append(outcome.Stages, delivered.Report(StageDeliver))
	if !delivered.OK() {
		return o.finish(logger, outcome, start)
	}

	receipt := delivered.Value
	outcome.Receipt = &receipt
	outcome.OK = true
	return o.finish(logger, outcome, start)
}

func (o *Orchestrator) finish(logger *slog.Logger, outcome Outcome, start time.Time) Outcome {
	outcome.Elapsed = time.Since(start)
	if outcome.OK {
		logger.Info("pipeline completed",
			logging.String(logging.FieldEventType, "pipeline_complete"),
			logging.Duration("elapsed", outcome.Elapsed))
	} else {
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "pipeline_failure"),
			logging.Duration("elapsed", outcome.Elapsed),
		}
		if st, found := outcome.FailedStage(); found {
			attrs = append(attrs,
				logging.String("failed_stage", st.Name),
				logging.String("failure_kind", string(st.Kind)),
				logging.String("error_message", st.Message))
		}
		logger.Error("pipeline failed", logging.Args(attrs...)...)
	}
	return outcome
}
