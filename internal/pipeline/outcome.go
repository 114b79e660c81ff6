package pipeline

import (
	"fmt"
	"time"
)

// Input identifies one audio item flowing through the pipeline. Immutable
// once constructed; each run owns its input exclusively.
type Input struct {
	ID       string
	Name     string
	MIMEType string
	Size     int64
	Audio    []byte
}

// Summary is the structured result of the summarization stage.
type Summary struct {
	Text     string
	Model    string
	Language string
}

// Delivery is the input to the delivery stage: the summary plus everything
// needed to name and attach the outputs.
type Delivery struct {
	Input      Input
	Transcript string
	Summary    Summary
}

// Receipt describes what the delivery stage produced.
type Receipt struct {
	SummaryFilename string
	DriveFileID     string
	EmailID         string
}

// StageReport is the type-erased record of one attempted stage.
type StageReport struct {
	Name    string
	OK      bool
	Kind    FailureKind
	Message string
	Elapsed time.Duration
}

// Outcome aggregates the stage reports of one pipeline run. Stages after the
// first failure are absent. Outcomes are returned to the caller and never
// persisted.
type Outcome struct {
	InputID string
	OK      bool
	Stages  []StageReport
	Receipt *Receipt
	Elapsed time.Duration
}

// FailedStage returns the report of the stage that failed, if any.
func (o Outcome) FailedStage() (StageReport, bool) {
	for _, st := range o.Stages {
		if !st.OK {
			return st, true
		}
	}
	return StageReport{}, false
}

// Err renders the outcome as an error for callers that need one, or nil when
// the run succeeded.
func (o Outcome) Err() error {
	if o.OK {
		return nil
	}
	if st, found := o.FailedStage(); found {
		return fmt.Errorf("%s stage failed (%s): %s", st.Name, st.Kind, st.Message)
	}
	return fmt.Errorf("pipeline failed for %s", o.InputID)
}
