package attrs

import (
	"math"
	"time"
)

// Entry is one dated attribute observation for a player or a team. Source
// NULLs arrive as NaN values so they poison arithmetic the same way the
// source data does.
type Entry struct {
	EntityID int64
	Date     time.Time
	Values   map[string]float64
}

// Snapshot is an entity's attribute state at some cutoff. A nil snapshot
// means the entity had no qualifying history; that is an empty state, not an
// error.
type Snapshot map[string]float64

// Value returns the named attribute, or NaN when the snapshot does not carry
// it. Aggregates stay undefined when any input is undefined.
func (s Snapshot) Value(name string) float64 {
	v, ok := s[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// Has reports whether the snapshot carries a usable value for the attribute.
func (s Snapshot) Has(name string) bool {
	v, ok := s[name]
	return ok && !math.IsNaN(v)
}

// History is an entity's attribute entries, in no particular order.
type History []Entry

// AsOf returns the entry state as of a cutoff: the greatest-dated entry
// strictly before it. Entries dated on or after the cutoff never qualify.
func (h History) AsOf(cutoff time.Time) Snapshot {
	best := -1
	for i := range h {
		if !h[i].Date.Before(cutoff) {
			continue
		}
		if best < 0 || h[i].Date.After(h[best].Date) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return Snapshot(h[best].Values)
}
