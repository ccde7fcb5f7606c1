package match

import (
	"errors"
	"testing"
	"time"
)

// completeRow builds a row with every wide-schema column filled. Home slot 1
// and away slot 1 sit on the goalkeeper coordinate.
func completeRow() Row {
	row := Row{
		ColMatchAPIID:    int64(493016),
		ColSeason:        "2015/2016",
		ColDate:          "2015-08-21 00:00:00",
		ColHomeTeamAPIID: int64(9825),
		ColAwayTeamAPIID: int64(8650),
		ColHomeTeamGoal:  int64(2),
		ColAwayTeamGoal:  int64(1),
	}
	for _, side := range []Side{SideHome, SideAway} {
		base := int64(1000)
		if side == SideAway {
			base = 2000
		}
		for n := 1; n <= SquadSize; n++ {
			row[PlayerColumn(side, n)] = base + int64(n)
			xCol, yCol := CoordColumns(side, n)
			if n == 1 {
				row[xCol], row[yCol] = float64(1), float64(1)
				continue
			}
			row[xCol], row[yCol] = float64(n), float64(3)
		}
	}
	return row
}

func TestFromRow_CompleteRow(t *testing.T) {
	t.Parallel()

	rec, err := FromRow(completeRow())
	if err != nil {
		t.Fatalf("FromRow error: %v", err)
	}

	if rec.MatchAPIID != 493016 {
		t.Fatalf("unexpected match api id: got=%d want=493016", rec.MatchAPIID)
	}
	if rec.Season != "2015/2016" {
		t.Fatalf("unexpected season: got=%q", rec.Season)
	}
	want := time.Date(2015, 8, 21, 0, 0, 0, 0, time.UTC)
	if !rec.Date.Equal(want) {
		t.Fatalf("unexpected date: got=%v want=%v", rec.Date, want)
	}
	if rec.HomeGoals != 2 || rec.AwayGoals != 1 {
		t.Fatalf("unexpected goals: got=%d:%d want=2:1", rec.HomeGoals, rec.AwayGoals)
	}

	for _, lineup := range []Lineup{rec.Home, rec.Away} {
		for i, slot := range lineup {
			if slot.Number != i+1 {
				t.Fatalf("unexpected slot number: got=%d want=%d", slot.Number, i+1)
			}
			if slot.PlayerID == nil {
				t.Fatalf("slot %d has no player id", slot.Number)
			}
			if slot.X == nil || slot.Y == nil {
				t.Fatalf("slot %d has no coordinates", slot.Number)
			}
		}
	}
	if got := len(rec.PlayerIDs()); got != 22 {
		t.Fatalf("unexpected distinct player count: got=%d want=22", got)
	}
}

func TestFromRow_MissingColumnIsSchemaError(t *testing.T) {
	t.Parallel()

	row := completeRow()
	delete(row, PlayerColumn(SideAway, 7))

	_, err := FromRow(row)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestFromRow_NullPlayerIDIsNotAnError(t *testing.T) {
	t.Parallel()

	row := completeRow()
	row[PlayerColumn(SideHome, 4)] = nil
	xCol, yCol := CoordColumns(SideHome, 4)
	row[xCol], row[yCol] = nil, nil

	rec, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow error: %v", err)
	}
	slot := rec.Home[3]
	if slot.PlayerID != nil || slot.X != nil || slot.Y != nil {
		t.Fatalf("expected empty slot 4, got %+v", slot)
	}
	if got := len(rec.PlayerIDs()); got != 21 {
		t.Fatalf("unexpected distinct player count: got=%d want=21", got)
	}
}

func TestFromRow_NullMatchIDIsDataError(t *testing.T) {
	t.Parallel()

	row := completeRow()
	row[ColMatchAPIID] = nil

	_, err := FromRow(row)
	if !errors.Is(err, ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
}

func TestFromRow_DriverByteValues(t *testing.T) {
	t.Parallel()

	row := completeRow()
	row[ColMatchAPIID] = []byte("493016")
	row[ColSeason] = []byte("2015/2016")
	row[ColDate] = []byte("2015-08-21")
	row[PlayerColumn(SideHome, 2)] = []byte("30981")
	xCol, _ := CoordColumns(SideHome, 2)
	row[xCol] = []byte("2")

	rec, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow error: %v", err)
	}
	if rec.MatchAPIID != 493016 {
		t.Fatalf("unexpected match api id: got=%d want=493016", rec.MatchAPIID)
	}
	if got := *rec.Home[1].PlayerID; got != 30981 {
		t.Fatalf("unexpected player id: got=%d want=30981", got)
	}
}

func TestColumns_CoversWideLayout(t *testing.T) {
	t.Parallel()

	cols := Columns()
	if got, want := len(cols), 7+6*SquadSize; got != want {
		t.Fatalf("unexpected column count: got=%d want=%d", got, want)
	}

	row := completeRow()
	for _, col := range cols {
		if _, ok := row[col]; !ok {
			t.Fatalf("column %q missing from complete row fixture", col)
		}
	}
}
