package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchsight/matchsight/internal/domain/match"
	qb "github.com/matchsight/matchsight/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// ListRows returns raw wide rows ordered by kickoff. Parsing stays with the
// caller so one malformed row does not sink the whole listing.
func (r *MatchRepository) ListRows(ctx context.Context, filter match.Filter) ([]match.Row, error) {
	builder := qb.Select(quotedMatchColumns()...).From(matchesTable)

	conditions := make([]qb.Condition, 0, 2)
	if len(filter.Seasons) > 0 {
		conditions = append(conditions, qb.In(match.ColSeason, stringArgs(filter.Seasons)))
	}
	if len(filter.MatchAPIIDs) > 0 {
		conditions = append(conditions, qb.In(match.ColMatchAPIID, int64Args(filter.MatchAPIIDs)))
	}
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	builder = builder.OrderBy(match.ColDate, match.ColMatchAPIID)
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match rows query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list match rows: %w", err)
	}
	defer rows.Close()

	out := make([]match.Row, 0, 64)
	for rows.Next() {
		raw := make(map[string]any, 7+6*match.SquadSize)
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, match.Row(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}

	return out, nil
}
