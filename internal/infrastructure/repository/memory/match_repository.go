package memory

import (
	"context"
	"sync"

	"github.com/matchsight/matchsight/internal/domain/match"
)

type MatchRepository struct {
	mu   sync.RWMutex
	rows []match.Row
}

func NewMatchRepository(rows []match.Row) *MatchRepository {
	return &MatchRepository{rows: append([]match.Row(nil), rows...)}
}

// ListRows returns seeded rows narrowed by the filter. The seed keeps rows in
// kickoff order, so listings come back ordered like the postgres repository.
func (r *MatchRepository) ListRows(_ context.Context, filter match.Filter) ([]match.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seasons := stringSet(filter.Seasons)
	ids := int64Set(filter.MatchAPIIDs)

	out := make([]match.Row, 0, len(r.rows))
	for _, row := range r.rows {
		if len(seasons) > 0 {
			if _, ok := seasons[rowSeason(row)]; !ok {
				continue
			}
		}
		if len(ids) > 0 {
			if _, ok := ids[match.RowMatchAPIID(row)]; !ok {
				continue
			}
		}
		out = append(out, cloneRow(row))
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func rowSeason(row match.Row) string {
	switch v := row[match.ColSeason].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func cloneRow(row match.Row) match.Row {
	out := make(match.Row, len(row))
	for column, value := range row {
		out[column] = value
	}
	return out
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

func int64Set(values []int64) map[int64]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[int64]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
