package features

import (
	"fmt"
	"strings"
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
)

// Mode selects how player attributes are laid out in a feature row.
type Mode string

const (
	// ModeAll keeps every individual value: ten outfield columns plus the
	// keeper, per side.
	ModeAll Mode = "all"
	// ModeDiff keeps per-slot home minus away differences.
	ModeDiff Mode = "diff"
	// ModeAvgDiff keeps one averaged outfield difference per attribute.
	ModeAvgDiff Mode = "avg_diff"
	// ModeAvg keeps per-side outfield averages.
	ModeAvg Mode = "avg"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAll:
		return ModeAll, nil
	case ModeDiff:
		return ModeDiff, nil
	case ModeAvgDiff, Mode("avgdiff"):
		return ModeAvgDiff, nil
	case ModeAvg:
		return ModeAvg, nil
	default:
		return "", fmt.Errorf("unknown export mode %q", s)
	}
}

// OutfieldCount is the number of non-keeper slots per side.
const OutfieldCount = 10

// TeamSheet is one side of a match resolved to attribute snapshots: the ten
// outfield players in slot order, then the keeper.
type TeamSheet struct {
	Field  []attrs.Snapshot
	Keeper attrs.Snapshot
}

// Profile carries both sides of one match plus the team-level snapshots.
type Profile struct {
	Home     TeamSheet
	Away     TeamSheet
	HomeTeam attrs.Snapshot
	AwayTeam attrs.Snapshot
}

// Row is one extracted feature row ready for a sink. Undefined values stay
// NaN in memory; sinks render them as nulls.
type Row struct {
	MatchAPIID    int64
	Season        string
	Date          time.Time
	HomeTeamAPIID int64
	AwayTeamAPIID int64
	HomeGoals     int
	AwayGoals     int
	Outcome       string
	Values        map[string]float64
}

func (r Row) Validate() error {
	if r.MatchAPIID == 0 {
		return fmt.Errorf("feature row match api id is required")
	}
	if len(r.Values) == 0 {
		return fmt.Errorf("feature row has no values")
	}
	return nil
}
