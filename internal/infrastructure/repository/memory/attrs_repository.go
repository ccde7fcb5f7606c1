package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
)

type PlayerAttributeRepository struct {
	mu        sync.RWMutex
	histories map[int64]attrs.History
}

func NewPlayerAttributeRepository(histories map[int64]attrs.History) *PlayerAttributeRepository {
	return &PlayerAttributeRepository{histories: cloneHistories(histories)}
}

// PlayerHistories pre-filters entries on the cutoff like the postgres
// repository does; AsOf still enforces the strict bound.
func (r *PlayerAttributeRepository) PlayerHistories(_ context.Context, playerIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterHistories(r.histories, playerIDs, cutoff), nil
}

type TeamAttributeRepository struct {
	mu        sync.RWMutex
	histories map[int64]attrs.History
}

func NewTeamAttributeRepository(histories map[int64]attrs.History) *TeamAttributeRepository {
	return &TeamAttributeRepository{histories: cloneHistories(histories)}
}

// TeamHistories pre-filters entries on the cutoff like the postgres
// repository does; AsOf still enforces the strict bound.
func (r *TeamAttributeRepository) TeamHistories(_ context.Context, teamIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterHistories(r.histories, teamIDs, cutoff), nil
}

func cloneHistories(histories map[int64]attrs.History) map[int64]attrs.History {
	out := make(map[int64]attrs.History, len(histories))
	for id, history := range histories {
		out[id] = append(attrs.History(nil), history...)
	}
	return out
}

// filterHistories keeps entries dated strictly before the cutoff. Entities
// with no qualifying entries are left out; an absent history is an empty
// state, not an error.
func filterHistories(histories map[int64]attrs.History, ids []int64, cutoff time.Time) map[int64]attrs.History {
	out := make(map[int64]attrs.History, len(ids))
	for _, id := range ids {
		history, ok := histories[id]
		if !ok {
			continue
		}
		kept := make(attrs.History, 0, len(history))
		for _, entry := range history {
			if !entry.Date.Before(cutoff) {
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) == 0 {
			continue
		}
		out[id] = kept
	}
	return out
}
