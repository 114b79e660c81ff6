package deps

import (
	"testing"
)

func TestCheckReportsMissingBinary(t *testing.T) {
	results := Check([]Requirement{
		{Name: "Nope", Command: "definitely-not-a-real-binary-xyz"},
	})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("nonexistent binary reported available")
	}
	if results[0].Detail == "" {
		t.Fatal("expected a detail message for missing binary")
	}
}

func TestCheckReportsUnconfiguredCommand(t *testing.T) {
	results := Check([]Requirement{{Name: "Empty", Command: "  "}})
	if results[0].Available || results[0].Detail != "command not configured" {
		t.Fatalf("unexpected status %+v", results[0])
	}
}

func TestCheckFindsRealBinary(t *testing.T) {
	// sh is present on any platform these tests run on.
	results := Check(Default("sh"))
	if !results[0].Available {
		t.Fatalf("expected sh to resolve, got %+v", results[0])
	}
}
