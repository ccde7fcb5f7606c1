package id

import (
	"strings"
	"testing"
	"time"
)

func TestNewRunID(t *testing.T) {
	runID, err := NewRunID()
	if err != nil {
		t.Fatalf("new run id: %v", err)
	}

	prefix, suffix, ok := strings.Cut(runID, "-")
	if !ok {
		t.Fatalf("run id %q has no separator", runID)
	}
	if _, err := time.Parse("20060102T150405", prefix); err != nil {
		t.Fatalf("run id prefix %q is not a timestamp: %v", prefix, err)
	}
	if len(suffix) != 8 {
		t.Fatalf("unexpected run id suffix %q", suffix)
	}

	other, err := NewRunID()
	if err != nil {
		t.Fatalf("new run id: %v", err)
	}
	if runID == other {
		t.Fatalf("run ids collided: %q", runID)
	}
}
