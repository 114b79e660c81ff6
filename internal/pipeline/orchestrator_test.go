package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"voxum/internal/pipeline"
	"voxum/internal/services"
)

type fakeTranscriber struct {
	calls  int
	result string
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ pipeline.Input) (string, error) {
	f.calls++
	return f.result, f.err
}

type fakeSummarizer struct {
	calls    int
	received string
	result   pipeline.Summary
	err      error
}

func (f *fakeSummarizer) Summarize(_ context.Context, transcript string) (pipeline.Summary, error) {
	f.calls++
	f.received = transcript
	return f.result, f.err
}

type fakeDeliverer struct {
	calls    int
	received pipeline.Delivery
	result   pipeline.Receipt
	err      error
}

func (f *fakeDeliverer) Deliver(_ context.Context, req pipeline.Delivery) (pipeline.Receipt, error) {
	f.calls++
	f.received = req
	return f.result, f.err
}

func newOrchestrator(t *fakeTranscriber, s *fakeSummarizer, d *fakeDeliverer) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(t, s, d, pipeline.Timeouts{}, nil)
}

func TestProcessAllStagesSucceed(t *testing.T) {
	tr := &fakeTranscriber{result: "hello transcript"}
	sm := &fakeSummarizer{result: pipeline.Summary{Text: "the summary"}}
	dl := &fakeDeliverer{result: pipeline.Receipt{EmailID: "email-1", SummaryFilename: "meeting_summary.txt"}}

	outcome := newOrchestrator(tr, sm, dl).Process(context.Background(), pipeline.Input{ID: "a", Name: "meeting.mp3"})

	if !outcome.OK {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.InputID != "a" {
		t.Fatalf("unexpected input id: %q", outcome.InputID)
	}
	if len(outcome.Stages) != 3 {
		t.Fatalf("expected 3 stage reports, got %d", len(outcome.Stages))
	}
	for _, st := range outcome.Stages {
		if !st.OK {
			t.Fatalf("stage %s unexpectedly failed: %+v", st.Name, st)
		}
	}
	if outcome.Receipt == nil || outcome.Receipt.EmailID != "email-1" {
		t.Fatalf("unexpected receipt: %+v", outcome.Receipt)
	}
	if outcome.Err() != nil {
		t.Fatalf("Err should be nil on success, got %v", outcome.Err())
	}
}

func TestProcessFlowsOutputsVerbatim(t *testing.T) {
	tr := &fakeTranscriber{result: "transcript T"}
	sm := &fakeSummarizer{result: pipeline.Summary{Text: "summary S", Language: "en"}}
	dl := &fakeDeliverer{}

	in := pipeline.Input{ID: "x", Name: "standup.m4a"}
	newOrchestrator(tr, sm, dl).Process(context.Background(), in)

	if sm.received != "transcript T" {
		t.Fatalf("summarizer received %q, want the transcript verbatim", sm.received)
	}
	if dl.received.Summary.Text != "summary S" || dl.received.Summary.Language != "en" {
		t.Fatalf("deliverer received summary %+v, want the summarizer output verbatim", dl.received.Summary)
	}
	if dl.received.Transcript != "transcript T" {
		t.Fatalf("deliverer received transcript %q", dl.received.Transcript)
	}
	if dl.received.Input.ID != "x" {
		t.Fatalf("deliverer received input %+v", dl.received.Input)
	}
}

func TestProcessShortCircuitsOnTranscribeFailure(t *testing.T) {
	tr := &fakeTranscriber{err: services.Wrap(services.ErrExternalService, "whisper", "transcribe", "boom", nil)}
	sm := &fakeSummarizer{}
	dl := &fakeDeliverer{}

	outcome := newOrchestrator(tr, sm, dl).Process(context.Background(), pipeline.Input{ID: "b"})

	if outcome.OK {
		t.Fatal("expected failure")
	}
	if sm.calls != 0 || dl.calls != 0 {
		t.Fatalf("later stages must not run: summarize=%d deliver=%d", sm.calls, dl.calls)
	}
	if len(outcome.Stages) != 1 {
		t.Fatalf("expected 1 stage report, got %d", len(outcome.Stages))
	}
	if outcome.Stages[0].Kind != pipeline.KindCapabilityError {
		t.Fatalf("unexpected kind: %s", outcome.Stages[0].Kind)
	}
}

func TestProcessSummarizeFailureSkipsDelivery(t *testing.T) {
	tr := &fakeTranscriber{result: "text"}
	sm := &fakeSummarizer{err: services.Wrap(services.ErrExternalService, "llm", "summarize", "rejected", nil)}
	dl := &fakeDeliverer{}

	outcome := newOrchestrator(tr, sm, dl).Process(context.Background(), pipeline.Input{ID: "b"})

	if outcome.OK {
		t.Fatal("expected failure")
	}
	if dl.calls != 0 {
		t.Fatalf("deliver must not run, got %d calls", dl.calls)
	}
	if len(outcome.Stages) != 2 {
		t.Fatalf("expected 2 stage reports, got %d", len(outcome.Stages))
	}
	st, found := outcome.FailedStage()
	if !found || st.Name != pipeline.StageSummarize {
		t.Fatalf("unexpected failed stage: %+v %v", st, found)
	}
	if outcome.Err() == nil {
		t.Fatal("Err should be non-nil on failure")
	}
}

func TestProcessEachRunAttemptsCapabilityOnce(t *testing.T) {
	tr := &fakeTranscriber{err: errors.New("flaky")}
	sm := &fakeSummarizer{}
	dl := &fakeDeliverer{}

	orc := newOrchestrator(tr, sm, dl)
	orc.Process(context.Background(), pipeline.Input{ID: "c"})
	if tr.calls != 1 {
		t.Fatalf("stage must attempt exactly once, got %d", tr.calls)
	}

	// A re-submitted input starts a fresh run from the first stage.
	orc.Process(context.Background(), pipeline.Input{ID: "c"})
	if tr.calls != 2 {
		t.Fatalf("expected fresh attempt on re-submission, got %d", tr.calls)
	}
}

func TestProcessDeterministicControlFlow(t *testing.T) {
	tr := &fakeTranscriber{result: "t"}
	sm := &fakeSummarizer{result: pipeline.Summary{Text: "s"}}
	dl := &fakeDeliverer{}

	orc := newOrchestrator(tr, sm, dl)
	first := orc.Process(context.Background(), pipeline.Input{ID: "d"})
	second := orc.Process(context.Background(), pipeline.Input{ID: "d"})

	if len(first.Stages) != len(second.Stages) {
		t.Fatalf("stage counts differ: %d vs %d", len(first.Stages), len(second.Stages))
	}
	for i := range first.Stages {
		if first.Stages[i].Name != second.Stages[i].Name || first.Stages[i].OK != second.Stages[i].OK {
			t.Fatalf("stage %d differs between identical runs", i)
		}
	}
}
