package match

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one raw source row keyed by column name, as scanned from the wide
// match table. Values keep their driver types until FromRow parses them.
type Row map[string]any

// Source column names. Callers never concatenate these by hand; FromRow is
// the single place the wide layout is spelled out.
const (
	ColMatchAPIID    = "match_api_id"
	ColSeason        = "season"
	ColDate          = "date"
	ColHomeTeamAPIID = "home_team_api_id"
	ColAwayTeamAPIID = "away_team_api_id"
	ColHomeTeamGoal  = "home_team_goal"
	ColAwayTeamGoal  = "away_team_goal"
)

// PlayerColumn returns the player-id column for a slot, e.g. home_player_3.
func PlayerColumn(side Side, number int) string {
	return string(side) + "_player_" + strconv.Itoa(number)
}

// CoordColumns returns the X and Y columns for a slot, e.g. home_player_X3.
func CoordColumns(side Side, number int) (x, y string) {
	n := strconv.Itoa(number)
	return string(side) + "_player_X" + n, string(side) + "_player_Y" + n
}

// Columns lists every column FromRow reads, in source order. Repositories
// use it to keep SELECT lists aligned with the parser.
func Columns() []string {
	out := make([]string, 0, 7+6*SquadSize)
	out = append(out,
		ColMatchAPIID, ColSeason, ColDate,
		ColHomeTeamAPIID, ColAwayTeamAPIID,
		ColHomeTeamGoal, ColAwayTeamGoal,
	)
	for _, side := range []Side{SideHome, SideAway} {
		for n := 1; n <= SquadSize; n++ {
			out = append(out, PlayerColumn(side, n))
		}
		for n := 1; n <= SquadSize; n++ {
			x, y := CoordColumns(side, n)
			out = append(out, x, y)
		}
	}
	return out
}

// FromRow parses a raw row into a Record. A missing column is a schema
// error; a NULL player id or coordinate is an empty optional, not an error.
func FromRow(row Row) (Record, error) {
	var rec Record
	var err error

	if rec.MatchAPIID, err = requireInt64(row, ColMatchAPIID); err != nil {
		return Record{}, err
	}
	if rec.Season, err = requireString(row, ColSeason); err != nil {
		return Record{}, err
	}
	if rec.Date, err = requireTime(row, ColDate); err != nil {
		return Record{}, err
	}
	if rec.HomeTeamAPIID, err = requireInt64(row, ColHomeTeamAPIID); err != nil {
		return Record{}, err
	}
	if rec.AwayTeamAPIID, err = requireInt64(row, ColAwayTeamAPIID); err != nil {
		return Record{}, err
	}

	homeGoals, err := requireInt64(row, ColHomeTeamGoal)
	if err != nil {
		return Record{}, err
	}
	awayGoals, err := requireInt64(row, ColAwayTeamGoal)
	if err != nil {
		return Record{}, err
	}
	rec.HomeGoals, rec.AwayGoals = int(homeGoals), int(awayGoals)

	if rec.Home, err = parseLineup(row, SideHome); err != nil {
		return Record{}, err
	}
	if rec.Away, err = parseLineup(row, SideAway); err != nil {
		return Record{}, err
	}

	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrData, err)
	}
	return rec, nil
}

// RowMatchAPIID reads the match id out of a raw row for diagnostics. It
// returns zero when the id is absent or unreadable; failure reports still
// carry the row index.
func RowMatchAPIID(row Row) int64 {
	v, ok := row[ColMatchAPIID]
	if !ok || v == nil {
		return 0
	}
	id, err := toInt64(v)
	if err != nil {
		return 0
	}
	return id
}

func parseLineup(row Row, side Side) (Lineup, error) {
	var lineup Lineup
	for n := 1; n <= SquadSize; n++ {
		slot := Slot{Number: n}

		id, err := optionalInt64(row, PlayerColumn(side, n))
		if err != nil {
			return Lineup{}, err
		}
		slot.PlayerID = id

		xCol, yCol := CoordColumns(side, n)
		if slot.X, err = optionalFloat64(row, xCol); err != nil {
			return Lineup{}, err
		}
		if slot.Y, err = optionalFloat64(row, yCol); err != nil {
			return Lineup{}, err
		}

		lineup[n-1] = slot
	}
	return lineup, nil
}

func lookup(row Row, column string) (any, error) {
	v, ok := row[column]
	if !ok {
		return nil, fmt.Errorf("%w: column %q is missing", ErrSchema, column)
	}
	return v, nil
}

func requireInt64(row Row, column string) (int64, error) {
	v, err := lookup(row, column)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%w: column %q is null", ErrData, column)
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q: %v", ErrSchema, column, err)
	}
	return n, nil
}

func requireString(row Row, column string) (string, error) {
	v, err := lookup(row, column)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("%w: column %q is null", ErrData, column)
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%w: column %q: %v", ErrSchema, column, err)
	}
	return s, nil
}

func requireTime(row Row, column string) (time.Time, error) {
	v, err := lookup(row, column)
	if err != nil {
		return time.Time{}, err
	}
	if v == nil {
		return time.Time{}, fmt.Errorf("%w: column %q is null", ErrData, column)
	}
	t, err := toTime(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: column %q: %v", ErrSchema, column, err)
	}
	return t, nil
}

func optionalInt64(row Row, column string) (*int64, error) {
	v, err := lookup(row, column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q: %v", ErrSchema, column, err)
	}
	return &n, nil
}

func optionalFloat64(row Row, column string) (*float64, error) {
	v, err := lookup(row, column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q: %v", ErrSchema, column, err)
	}
	return &f, nil
}

func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(val)), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	default:
		return 0, fmt.Errorf("cannot read %T as integer", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		return 0, fmt.Errorf("cannot read %T as float", v)
	}
}

func toString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return "", fmt.Errorf("cannot read %T as string", v)
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case []byte:
		return parseTime(string(val))
	case string:
		return parseTime(val)
	default:
		return time.Time{}, fmt.Errorf("cannot read %T as time", v)
	}
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
