package postgres

import (
	"fmt"
	"math"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchsight/matchsight/internal/domain/features"
)

type matchFeatureInsertModel struct {
	MatchAPIID    int64     `db:"match_api_id"`
	Season        string    `db:"season"`
	Date          time.Time `db:"date"`
	HomeTeamAPIID int64     `db:"home_team_api_id"`
	AwayTeamAPIID int64     `db:"away_team_api_id"`
	HomeGoals     int       `db:"home_team_goal"`
	AwayGoals     int       `db:"away_team_goal"`
	Outcome       string    `db:"outcome"`
	Features      []byte    `db:"features"`
}

func matchFeatureInsertModelFromRow(row features.Row) (matchFeatureInsertModel, error) {
	payload, err := featuresJSON(row.Values)
	if err != nil {
		return matchFeatureInsertModel{}, fmt.Errorf("encode features match_api_id=%d: %w", row.MatchAPIID, err)
	}

	return matchFeatureInsertModel{
		MatchAPIID:    row.MatchAPIID,
		Season:        row.Season,
		Date:          row.Date,
		HomeTeamAPIID: row.HomeTeamAPIID,
		AwayTeamAPIID: row.AwayTeamAPIID,
		HomeGoals:     row.HomeGoals,
		AwayGoals:     row.AwayGoals,
		Outcome:       row.Outcome,
		Features:      payload,
	}, nil
}

// featuresJSON renders feature values for the JSONB column. JSON has no NaN,
// so undefined values become null.
func featuresJSON(values map[string]float64) ([]byte, error) {
	payload := make(map[string]any, len(values))
	for name, value := range values {
		if math.IsNaN(value) {
			payload[name] = nil
			continue
		}
		payload[name] = value
	}
	return sonic.Marshal(payload)
}
