package pipeline

import (
	"context"
	"errors"
	"time"

	"voxum/internal/services"
)

// FailureKind classifies why a stage failed.
type FailureKind string

const (
	KindInvalidInput    FailureKind = "invalid_input"
	KindCapabilityError FailureKind = "capability_error"
	KindTimeout         FailureKind = "timeout"
	KindUnknown         FailureKind = "unknown"
)

// StageResult is the tagged outcome of one stage invocation: either a value
// or a failure, never both.
type StageResult[T any] struct {
	Value   T
	Kind    FailureKind
	Message string
	Elapsed time.Duration
}

// OK reports whether the stage produced a value.
func (r StageResult[T]) OK() bool {
	return r.Kind == ""
}

// Report converts the result into its type-erased form for aggregation.
func (r StageResult[T]) Report(name string) StageReport {
	return StageReport{
		Name:    name,
		OK:      r.OK(),
		Kind:    r.Kind,
		Message: r.Message,
		Elapsed: r.Elapsed,
	}
}

// KindForError maps a capability error to a failure kind using the shared
// services error markers.
func KindForError(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, services.ErrTimeout):
		return KindTimeout
	case errors.Is(err, services.ErrValidation):
		return KindInvalidInput
	case errors.Is(err, services.ErrExternalService),
		errors.Is(err, services.ErrTransient),
		errors.Is(err, services.ErrConfiguration):
		return KindCapabilityError
	default:
		return KindUnknown
	}
}
