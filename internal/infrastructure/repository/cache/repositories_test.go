package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
	basecache "github.com/matchsight/matchsight/internal/platform/cache"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlayerAttributeRepository_CachesFullHistory(t *testing.T) {
	t.Parallel()

	next := &stubPlayerRepo{histories: map[int64]attrs.History{
		30981: {
			{EntityID: 30981, Date: day(2014, 7, 15), Values: map[string]float64{"overall_rating": 88}},
			{EntityID: 30981, Date: day(2015, 7, 20), Values: map[string]float64{"overall_rating": 91}},
		},
	}}
	repo := NewPlayerAttributeRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.PlayerHistories(context.Background(), []int64{30981, 30981}, day(2015, 1, 1))
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("next called %d times, want 1", next.calls)
	}
	if !next.lastCutoff.Equal(historyHorizon) {
		t.Fatalf("cache fill used cutoff %s, want horizon", next.lastCutoff)
	}
	if len(first[30981]) != 1 {
		t.Fatalf("unexpected entry count before cutoff: got=%d want=1", len(first[30981]))
	}

	second, err := repo.PlayerHistories(context.Background(), []int64{30981}, day(2016, 1, 1))
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("warm lookup hit the store again, next called %d times", next.calls)
	}
	if len(second[30981]) != 2 {
		t.Fatalf("unexpected entry count at later cutoff: got=%d want=2", len(second[30981]))
	}
}

func TestPlayerAttributeRepository_AbsentWhenNothingQualifies(t *testing.T) {
	t.Parallel()

	next := &stubPlayerRepo{histories: map[int64]attrs.History{
		30981: {
			{EntityID: 30981, Date: day(2015, 7, 20), Values: map[string]float64{"overall_rating": 91}},
		},
	}}
	repo := NewPlayerAttributeRepository(next, basecache.NewStore(time.Minute))

	out, err := repo.PlayerHistories(context.Background(), []int64{30981, 404}, day(2015, 1, 1))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, ok := out[30981]; ok {
		t.Fatal("entity with no qualifying entries must stay absent")
	}
	if _, ok := out[404]; ok {
		t.Fatal("unknown entity must stay absent")
	}

	// The empty history is cached too; unknown ids do not re-query.
	if _, err := repo.PlayerHistories(context.Background(), []int64{404}, day(2015, 1, 1)); err != nil {
		t.Fatalf("repeat lookup: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("next called %d times, want 2", next.calls)
	}
}

func TestTeamAttributeRepository_FiltersOnCutoff(t *testing.T) {
	t.Parallel()

	next := &stubTeamRepo{histories: map[int64]attrs.History{
		9825: {
			{EntityID: 9825, Date: day(2014, 7, 10), Values: map[string]float64{"buildUpPlaySpeed": 45}},
			{EntityID: 9825, Date: day(2015, 7, 10), Values: map[string]float64{"buildUpPlaySpeed": 48}},
		},
	}}
	repo := NewTeamAttributeRepository(next, basecache.NewStore(time.Minute))

	out, err := repo.TeamHistories(context.Background(), []int64{9825}, day(2015, 1, 1))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(out[9825]) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(out[9825]))
	}
	if got := out[9825].AsOf(day(2015, 1, 1)).Value("buildUpPlaySpeed"); got != 45 {
		t.Fatalf("unexpected buildUpPlaySpeed: got=%v want=45", got)
	}
}

type stubPlayerRepo struct {
	histories  map[int64]attrs.History
	calls      int
	lastCutoff time.Time
}

func (s *stubPlayerRepo) PlayerHistories(_ context.Context, playerIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	s.calls++
	s.lastCutoff = cutoff
	out := make(map[int64]attrs.History, len(playerIDs))
	for _, id := range playerIDs {
		if h, ok := s.histories[id]; ok {
			out[id] = append(attrs.History(nil), h...)
		}
	}
	return out, nil
}

type stubTeamRepo struct {
	histories  map[int64]attrs.History
	calls      int
	lastCutoff time.Time
}

func (s *stubTeamRepo) TeamHistories(_ context.Context, teamIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	s.calls++
	s.lastCutoff = cutoff
	out := make(map[int64]attrs.History, len(teamIDs))
	for _, id := range teamIDs {
		if h, ok := s.histories[id]; ok {
			out[id] = append(attrs.History(nil), h...)
		}
	}
	return out, nil
}
