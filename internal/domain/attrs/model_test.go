package attrs

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHistory_AsOfPicksLatestEntryBeforeCutoff(t *testing.T) {
	t.Parallel()

	history := History{
		{EntityID: 10, Date: day(2015, 1, 1), Values: map[string]float64{"overall_rating": 70}},
		{EntityID: 10, Date: day(2015, 6, 1), Values: map[string]float64{"overall_rating": 75}},
	}

	snap := history.AsOf(day(2015, 5, 1))
	if got := snap.Value("overall_rating"); got != 70 {
		t.Fatalf("unexpected rating: got=%v want=70", got)
	}

	// Same call, same answer.
	again := history.AsOf(day(2015, 5, 1))
	if got := again.Value("overall_rating"); got != 70 {
		t.Fatalf("lookup not idempotent: got=%v want=70", got)
	}

	if got := history.AsOf(day(2015, 7, 1)).Value("overall_rating"); got != 75 {
		t.Fatalf("unexpected rating after both entries: got=%v want=75", got)
	}
}

func TestHistory_AsOfExcludesCutoffDate(t *testing.T) {
	t.Parallel()

	history := History{
		{EntityID: 10, Date: day(2015, 6, 1), Values: map[string]float64{"overall_rating": 75}},
	}

	if snap := history.AsOf(day(2015, 6, 1)); snap != nil {
		t.Fatalf("entry dated on the cutoff must not qualify, got %v", snap)
	}
}

func TestHistory_AsOfEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	var history History
	snap := history.AsOf(day(2015, 5, 1))
	if snap != nil {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
	if got := snap.Value("overall_rating"); !math.IsNaN(got) {
		t.Fatalf("missing attribute must read as NaN, got %v", got)
	}
	if snap.Has("overall_rating") {
		t.Fatal("empty snapshot must not report attributes")
	}
}

func TestSnapshot_NaNValueIsCarriedButNotUsable(t *testing.T) {
	t.Parallel()

	snap := Snapshot{"finishing": math.NaN(), "overall_rating": 80}

	if !math.IsNaN(snap.Value("finishing")) {
		t.Fatal("NaN value must read back as NaN")
	}
	if snap.Has("finishing") {
		t.Fatal("NaN value must not count as usable")
	}
	if !snap.Has("overall_rating") {
		t.Fatal("real value must count as usable")
	}
}

func TestHistory_AsOfUnorderedEntries(t *testing.T) {
	t.Parallel()

	history := History{
		{EntityID: 7, Date: day(2014, 9, 18), Values: map[string]float64{"overall_rating": 66}},
		{EntityID: 7, Date: day(2015, 2, 13), Values: map[string]float64{"overall_rating": 71}},
		{EntityID: 7, Date: day(2014, 11, 7), Values: map[string]float64{"overall_rating": 68}},
	}

	if got := history.AsOf(day(2015, 1, 1)).Value("overall_rating"); got != 68 {
		t.Fatalf("unexpected rating: got=%v want=68", got)
	}
}
