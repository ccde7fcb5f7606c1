package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
	basecache "github.com/matchsight/matchsight/internal/platform/cache"
)

// Attribute histories are append-only season archives, so one warm entry per
// entity serves every cutoff. Fills load the full history up to
// historyHorizon and the decorator re-applies the caller's cutoff on the way
// out. Loads run through the store's singleflight, which collapses the
// duplicate lookups that concurrent match extractions produce for shared
// players.
var historyHorizon = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

type PlayerAttributeRepository struct {
	next  attrs.PlayerRepository
	cache *basecache.Store
}

func NewPlayerAttributeRepository(next attrs.PlayerRepository, cache *basecache.Store) *PlayerAttributeRepository {
	return &PlayerAttributeRepository{next: next, cache: cache}
}

func (r *PlayerAttributeRepository) PlayerHistories(ctx context.Context, playerIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	out := make(map[int64]attrs.History, len(playerIDs))
	seen := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		v, err := r.cache.GetOrLoad(ctx, playerHistoryKey(id), func(ctx context.Context) (any, error) {
			histories, err := r.next.PlayerHistories(ctx, []int64{id}, historyHorizon)
			if err != nil {
				return nil, err
			}
			return append(attrs.History(nil), histories[id]...), nil
		})
		if err != nil {
			return nil, err
		}

		history, _ := v.(attrs.History)
		if filtered := filterBefore(history, cutoff); len(filtered) > 0 {
			out[id] = filtered
		}
	}

	return out, nil
}

type TeamAttributeRepository struct {
	next  attrs.TeamRepository
	cache *basecache.Store
}

func NewTeamAttributeRepository(next attrs.TeamRepository, cache *basecache.Store) *TeamAttributeRepository {
	return &TeamAttributeRepository{next: next, cache: cache}
}

func (r *TeamAttributeRepository) TeamHistories(ctx context.Context, teamIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	out := make(map[int64]attrs.History, len(teamIDs))
	seen := make(map[int64]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		v, err := r.cache.GetOrLoad(ctx, teamHistoryKey(id), func(ctx context.Context) (any, error) {
			histories, err := r.next.TeamHistories(ctx, []int64{id}, historyHorizon)
			if err != nil {
				return nil, err
			}
			return append(attrs.History(nil), histories[id]...), nil
		})
		if err != nil {
			return nil, err
		}

		history, _ := v.(attrs.History)
		if filtered := filterBefore(history, cutoff); len(filtered) > 0 {
			out[id] = filtered
		}
	}

	return out, nil
}

// filterBefore keeps entries dated strictly before the cutoff. The cached
// history is shared across callers, so the result is always a fresh slice.
// Entities with no qualifying entries stay absent from the result map.
func filterBefore(history attrs.History, cutoff time.Time) attrs.History {
	out := make(attrs.History, 0, len(history))
	for _, entry := range history {
		if entry.Date.Before(cutoff) {
			out = append(out, entry)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func playerHistoryKey(id int64) string {
	return "player-attrs:history:" + strconv.FormatInt(id, 10)
}

func teamHistoryKey(id int64) string {
	return "team-attrs:history:" + strconv.FormatInt(id, 10)
}
