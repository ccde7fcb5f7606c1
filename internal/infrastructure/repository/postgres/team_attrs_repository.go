package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchsight/matchsight/internal/domain/attrs"
	qb "github.com/matchsight/matchsight/internal/platform/querybuilder"
)

const teamAttrIDColumn = "team_api_id"

type TeamAttributeRepository struct {
	db *sqlx.DB
}

func NewTeamAttributeRepository(db *sqlx.DB) *TeamAttributeRepository {
	return &TeamAttributeRepository{db: db}
}

// TeamHistories loads the dated attribute entries of the given teams up to,
// but not including, the cutoff.
func (r *TeamAttributeRepository) TeamHistories(ctx context.Context, teamIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	if len(teamIDs) == 0 {
		return map[int64]attrs.History{}, nil
	}

	query, args, err := qb.Select("*").From(teamAttrsTable).
		Where(
			qb.In(teamAttrIDColumn, int64Args(teamIDs)),
			qb.Lt(attrDateColumn, cutoff),
		).
		OrderBy(teamAttrIDColumn, attrDateColumn).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team attributes query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list team attributes: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]attrs.History, len(teamIDs))
	for rows.Next() {
		raw := map[string]any{}
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan team attribute row: %w", err)
		}
		entry, err := attrEntryFromRow(raw, teamAttrIDColumn, teamAttrSkipColumns)
		if err != nil {
			return nil, fmt.Errorf("parse team attribute row: %w", err)
		}
		out[entry.EntityID] = append(out[entry.EntityID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team attribute rows: %w", err)
	}

	return out, nil
}
