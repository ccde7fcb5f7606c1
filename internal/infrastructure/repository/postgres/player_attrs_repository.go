package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchsight/matchsight/internal/domain/attrs"
	qb "github.com/matchsight/matchsight/internal/platform/querybuilder"
)

const playerAttrIDColumn = "player_api_id"

type PlayerAttributeRepository struct {
	db *sqlx.DB
}

func NewPlayerAttributeRepository(db *sqlx.DB) *PlayerAttributeRepository {
	return &PlayerAttributeRepository{db: db}
}

// PlayerHistories loads the dated attribute entries of the given players up
// to, but not including, the cutoff.
func (r *PlayerAttributeRepository) PlayerHistories(ctx context.Context, playerIDs []int64, cutoff time.Time) (map[int64]attrs.History, error) {
	if len(playerIDs) == 0 {
		return map[int64]attrs.History{}, nil
	}

	query, args, err := qb.Select("*").From(playerAttrsTable).
		Where(
			qb.In(playerAttrIDColumn, int64Args(playerIDs)),
			qb.Lt(attrDateColumn, cutoff),
		).
		OrderBy(playerAttrIDColumn, attrDateColumn).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player attributes query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list player attributes: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]attrs.History, len(playerIDs))
	for rows.Next() {
		raw := map[string]any{}
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan player attribute row: %w", err)
		}
		entry, err := attrEntryFromRow(raw, playerAttrIDColumn, playerAttrSkipColumns)
		if err != nil {
			return nil, fmt.Errorf("parse player attribute row: %w", err)
		}
		out[entry.EntityID] = append(out[entry.EntityID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player attribute rows: %w", err)
	}

	return out, nil
}
