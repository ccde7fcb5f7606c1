package match

import (
	"fmt"
	"time"
)

// Side selects one team of a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// SquadSize is the number of lineup slots per side in the source schema.
const SquadSize = 11

// Slot is one starting-lineup position. Player id and pitch coordinates are
// optional: source rows carry NULLs when the lineup was not recorded.
type Slot struct {
	Number   int
	PlayerID *int64
	X        *float64
	Y        *float64
}

// IsKeeper reports whether the slot sits on the goalkeeper coordinate (1,1).
func (s Slot) IsKeeper() bool {
	return s.X != nil && s.Y != nil && *s.X == 1 && *s.Y == 1
}

// Lineup holds the eleven slots of one side, ordered by slot number.
type Lineup [SquadSize]Slot

// GoalkeeperPolicy controls how a lineup with several slots on the keeper
// coordinate is resolved.
type GoalkeeperPolicy int

const (
	// GoalkeeperLenient keeps the lowest-numbered matching slot.
	GoalkeeperLenient GoalkeeperPolicy = iota
	// GoalkeeperStrict rejects ambiguous lineups.
	GoalkeeperStrict
)

// Goalkeeper returns the index of the keeper slot. A lineup without a keeper
// slot is invalid under either policy.
func (l Lineup) Goalkeeper(policy GoalkeeperPolicy) (int, error) {
	first := -1
	for i, slot := range l {
		if !slot.IsKeeper() {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		if policy == GoalkeeperStrict {
			return 0, fmt.Errorf("%w: slots %d and %d both on goalkeeper coordinate", ErrData, l[first].Number, slot.Number)
		}
		break
	}
	if first < 0 {
		return 0, fmt.Errorf("%w: no slot on goalkeeper coordinate", ErrData)
	}
	return first, nil
}

// FieldSlots returns the ten outfield slots in slot order, skipping the
// keeper index.
func (l Lineup) FieldSlots(keeperIdx int) []Slot {
	out := make([]Slot, 0, SquadSize-1)
	for i, slot := range l {
		if i == keeperIdx {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// Record is one source match row parsed into typed fields.
type Record struct {
	MatchAPIID    int64
	Season        string
	Date          time.Time
	HomeTeamAPIID int64
	AwayTeamAPIID int64
	HomeGoals     int
	AwayGoals     int
	Home          Lineup
	Away          Lineup
}

func (r Record) Validate() error {
	if r.MatchAPIID == 0 {
		return fmt.Errorf("match api id is required")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if r.HomeTeamAPIID == 0 {
		return fmt.Errorf("home team api id is required")
	}
	if r.AwayTeamAPIID == 0 {
		return fmt.Errorf("away team api id is required")
	}
	return nil
}

// Lineup returns the side's lineup.
func (r Record) Lineup(side Side) Lineup {
	if side == SideAway {
		return r.Away
	}
	return r.Home
}

// PlayerIDs returns the distinct player ids present on both sides.
func (r Record) PlayerIDs() []int64 {
	seen := make(map[int64]struct{}, 2*SquadSize)
	out := make([]int64, 0, 2*SquadSize)
	for _, lineup := range []Lineup{r.Home, r.Away} {
		for _, slot := range lineup {
			if slot.PlayerID == nil {
				continue
			}
			if _, ok := seen[*slot.PlayerID]; ok {
				continue
			}
			seen[*slot.PlayerID] = struct{}{}
			out = append(out, *slot.PlayerID)
		}
	}
	return out
}

// TeamIDs returns the two team ids, home first.
func (r Record) TeamIDs() []int64 {
	return []int64{r.HomeTeamAPIID, r.AwayTeamAPIID}
}
