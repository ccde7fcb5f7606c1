package export

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchsight/matchsight/internal/domain/features"
)

func TestJSONLSink_WriteRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "features.jsonl")
	sink, err := NewJSONLSink(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := []features.Row{
		{
			MatchAPIID:    493016,
			Season:        "2015/2016",
			Date:          time.Date(2015, 8, 21, 0, 0, 0, 0, time.UTC),
			HomeTeamAPIID: 9825,
			AwayTeamAPIID: 8650,
			HomeGoals:     2,
			AwayGoals:     1,
			Outcome:       "Home Win",
			Values: map[string]float64{
				"overall_rating_avg_diff": 3.5,
				"potential_avg_diff":      math.NaN(),
			},
		},
		{
			MatchAPIID: 493017,
			Season:     "2015/2016",
			Date:       time.Date(2015, 8, 22, 0, 0, 0, 0, time.UTC),
			Outcome:    "Home Loss",
			Values:     map[string]float64{"overall_rating_avg_diff": -1},
		},
	}
	if err := sink.WriteRows(context.Background(), rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected line count: got=%d want=2", len(lines))
	}

	var first struct {
		MatchAPIID int64               `json:"match_api_id"`
		Date       string              `json:"date"`
		Outcome    string              `json:"outcome"`
		Features   map[string]*float64 `json:"features"`
	}
	if err := sonic.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line does not decode: %v", err)
	}
	if first.MatchAPIID != 493016 {
		t.Fatalf("unexpected match id: got=%d", first.MatchAPIID)
	}
	if first.Date != "2015-08-21T00:00:00Z" {
		t.Fatalf("unexpected date: got=%s", first.Date)
	}
	if first.Outcome != "Home Win" {
		t.Fatalf("unexpected outcome: got=%s", first.Outcome)
	}
	if got := first.Features["overall_rating_avg_diff"]; got == nil || *got != 3.5 {
		t.Fatalf("unexpected feature value: got=%v", got)
	}
	if got, ok := first.Features["potential_avg_diff"]; !ok || got != nil {
		t.Fatalf("NaN must export as null, got=%v present=%t", got, ok)
	}
}

func TestJSONLSink_EmptyBatchWritesNothing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "features.jsonl")
	sink, err := NewJSONLSink(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.WriteRows(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected empty file, got %d bytes", len(raw))
	}
}

func TestNewJSONLSink_BadPath(t *testing.T) {
	t.Parallel()

	if _, err := NewJSONLSink(filepath.Join(t.TempDir(), "missing", "features.jsonl"), nil); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
