package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"voxum/internal/services"
)

func TestStageRunSuccessCapturesElapsed(t *testing.T) {
	st := Stage[string, string]{
		Name: "echo",
		Call: func(_ context.Context, in string) (string, error) {
			time.Sleep(5 * time.Millisecond)
			return in + "!", nil
		},
	}

	result := st.Run(context.Background(), nil, "hi")
	if !result.OK() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Value != "hi!" {
		t.Fatalf("unexpected value: %q", result.Value)
	}
	if result.Elapsed <= 0 {
		t.Fatalf("expected positive elapsed, got %v", result.Elapsed)
	}
}

func TestStageRunClassifiesFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"validation", services.Wrap(services.ErrValidation, "x", "y", "bad input", nil), KindInvalidInput},
		{"external", services.Wrap(services.ErrExternalService, "x", "y", "http 500", nil), KindCapabilityError},
		{"transient", services.Wrap(services.ErrTransient, "x", "y", "conn reset", nil), KindCapabilityError},
		{"timeout", services.Wrap(services.ErrTimeout, "x", "y", "deadline", nil), KindTimeout},
		{"plain", errors.New("surprise"), KindUnknown},
	}

	for _, tc := range cases {
		st := Stage[int, int]{
			Name: tc.name,
			Call: func(_ context.Context, _ int) (int, error) { return 0, tc.err },
		}
		result := st.Run(context.Background(), nil, 0)
		if result.OK() {
			t.Fatalf("%s: expected failure", tc.name)
		}
		if result.Kind != tc.want {
			t.Fatalf("%s: kind = %s, want %s", tc.name, result.Kind, tc.want)
		}
		if result.Message == "" {
			t.Fatalf("%s: expected failure message", tc.name)
		}
	}
}

func TestStageRunTimeout(t *testing.T) {
	st := Stage[int, int]{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Call: func(ctx context.Context, _ int) (int, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Second):
				return 1, nil
			}
		},
	}

	result := st.Run(context.Background(), nil, 0)
	if result.OK() {
		t.Fatal("expected timeout failure")
	}
	if result.Kind != KindTimeout {
		t.Fatalf("kind = %s, want %s", result.Kind, KindTimeout)
	}
}

func TestStageRunContainsPanic(t *testing.T) {
	st := Stage[int, int]{
		Name: "panicky",
		Call: func(_ context.Context, _ int) (int, error) { panic("backend bug") },
	}

	result := st.Run(context.Background(), nil, 0)
	if result.OK() {
		t.Fatal("expected failure from panic")
	}
	if result.Kind != KindUnknown {
		t.Fatalf("kind = %s, want %s", result.Kind, KindUnknown)
	}
}

func TestKindForErrorNil(t *testing.T) {
	if kind := KindForError(nil); kind != "" {
		t.Fatalf("expected empty kind for nil error, got %s", kind)
	}
}
