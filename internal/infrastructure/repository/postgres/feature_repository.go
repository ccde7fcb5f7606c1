package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchsight/matchsight/internal/domain/features"
	qb "github.com/matchsight/matchsight/internal/platform/querybuilder"
)

// featureInsertChunkSize keeps multi-row inserts under the postgres bind
// parameter cap of 65535.
const featureInsertChunkSize = 500

const matchFeatureUpsertSuffix = `ON CONFLICT (match_api_id)
DO UPDATE SET
    season = EXCLUDED.season,
    date = EXCLUDED.date,
    home_team_api_id = EXCLUDED.home_team_api_id,
    away_team_api_id = EXCLUDED.away_team_api_id,
    home_team_goal = EXCLUDED.home_team_goal,
    away_team_goal = EXCLUDED.away_team_goal,
    outcome = EXCLUDED.outcome,
    features = EXCLUDED.features,
    updated_at = NOW()`

// MatchFeatureRepository persists extracted feature rows. It satisfies
// usecase.FeatureSink, so a batch extraction can stream straight into the
// match_features table.
type MatchFeatureRepository struct {
	db *sqlx.DB
}

func NewMatchFeatureRepository(db *sqlx.DB) *MatchFeatureRepository {
	return &MatchFeatureRepository{db: db}
}

func (r *MatchFeatureRepository) WriteRows(ctx context.Context, rows []features.Row) error {
	if len(rows) == 0 {
		return nil
	}

	models := make([]matchFeatureInsertModel, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("validate feature row match_api_id=%d: %w", row.MatchAPIID, err)
		}
		model, err := matchFeatureInsertModelFromRow(row)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx write match features: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(models); start += featureInsertChunkSize {
		end := start + featureInsertChunkSize
		if end > len(models) {
			end = len(models)
		}
		query, args, err := qb.InsertModels(matchFeaturesTable, models[start:end], matchFeatureUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert match features query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match features rows=%d: %w", end-start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write match features tx: %w", err)
	}
	return nil
}
