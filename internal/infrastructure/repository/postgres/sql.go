package postgres

import (
	"github.com/matchsight/matchsight/internal/domain/match"
)

const (
	matchesTable       = "matches"
	playerAttrsTable   = "player_attributes"
	teamAttrsTable     = "team_attributes"
	matchFeaturesTable = "match_features"
)

// quoteIdent preserves mixed-case source column names like home_player_X1,
// which postgres would otherwise fold to lowercase.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func quotedMatchColumns() []string {
	cols := match.Columns()
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = quoteIdent(col)
	}
	return out
}

func int64Args(values []int64) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func stringArgs(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
