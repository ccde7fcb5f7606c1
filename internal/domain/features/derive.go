package features

import (
	"strconv"
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
	"github.com/matchsight/matchsight/internal/domain/match"
)

// FromRecord resolves a match record against attribute histories as of
// kickoff. Goalkeeper resolution follows the given policy; missing histories
// resolve to empty snapshots rather than errors.
func FromRecord(
	rec match.Record,
	players map[int64]attrs.History,
	teams map[int64]attrs.History,
	policy match.GoalkeeperPolicy,
) (Profile, error) {
	home, err := buildSheet(rec.Home, rec.Date, players, policy)
	if err != nil {
		return Profile{}, err
	}
	away, err := buildSheet(rec.Away, rec.Date, players, policy)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Home:     home,
		Away:     away,
		HomeTeam: teams[rec.HomeTeamAPIID].AsOf(rec.Date),
		AwayTeam: teams[rec.AwayTeamAPIID].AsOf(rec.Date),
	}, nil
}

func buildSheet(
	lineup match.Lineup,
	cutoff time.Time,
	histories map[int64]attrs.History,
	policy match.GoalkeeperPolicy,
) (TeamSheet, error) {
	keeperIdx, err := lineup.Goalkeeper(policy)
	if err != nil {
		return TeamSheet{}, err
	}

	sheet := TeamSheet{Field: make([]attrs.Snapshot, 0, OutfieldCount)}
	for _, slot := range lineup.FieldSlots(keeperIdx) {
		sheet.Field = append(sheet.Field, slotSnapshot(slot, cutoff, histories))
	}
	sheet.Keeper = slotSnapshot(lineup[keeperIdx], cutoff, histories)
	return sheet, nil
}

func slotSnapshot(slot match.Slot, cutoff time.Time, histories map[int64]attrs.History) attrs.Snapshot {
	if slot.PlayerID == nil {
		return nil
	}
	return histories[*slot.PlayerID].AsOf(cutoff)
}

// Export derives feature values for the requested attributes in one mode.
// Outfield columns are numbered 1..10 in slot order after the keeper is
// removed. A missing input leaves the affected value NaN.
func Export(p Profile, cols []string, mode Mode) map[string]float64 {
	atts := make(map[string]float64, exportSize(len(cols), mode))

	switch mode {
	case ModeAll:
		for i, snap := range p.Home.Field {
			for _, col := range cols {
				atts[col+"_H_"+strconv.Itoa(i+1)] = snap.Value(col)
			}
		}
		for _, col := range cols {
			atts[col+"_H_gk"] = p.Home.Keeper.Value(col)
		}
		for i, snap := range p.Away.Field {
			for _, col := range cols {
				atts[col+"_A_"+strconv.Itoa(i+1)] = snap.Value(col)
			}
		}
		for _, col := range cols {
			atts[col+"_A_gk"] = p.Away.Keeper.Value(col)
		}

	case ModeDiff:
		for i := 0; i < len(p.Home.Field) && i < len(p.Away.Field); i++ {
			for _, col := range cols {
				atts[col+"_dif_"+strconv.Itoa(i+1)] = p.Home.Field[i].Value(col) - p.Away.Field[i].Value(col)
			}
		}
		for _, col := range cols {
			atts[col+"_dif_gk"] = p.Home.Keeper.Value(col) - p.Away.Keeper.Value(col)
		}

	case ModeAvgDiff:
		for _, col := range cols {
			atts[col+"_avg_diff"] = outfieldDifference(p, col) / OutfieldCount
			atts[col+"_avg_diff_gk"] = p.Home.Keeper.Value(col) - p.Away.Keeper.Value(col)
		}

	case ModeAvg:
		for _, col := range cols {
			atts[col+"_H_avg"] = outfieldSum(p.Home, col) / OutfieldCount
			atts[col+"_H_gk"] = p.Home.Keeper.Value(col)
		}
		for _, col := range cols {
			atts[col+"_A_avg"] = outfieldSum(p.Away, col) / OutfieldCount
			atts[col+"_A_gk"] = p.Away.Keeper.Value(col)
		}
	}

	return atts
}

// ExportTeam derives per-side team attributes and their home-minus-away
// difference.
func ExportTeam(p Profile, cols []string) map[string]float64 {
	atts := make(map[string]float64, 3*len(cols))
	for _, col := range cols {
		home := p.HomeTeam.Value(col)
		away := p.AwayTeam.Value(col)
		atts[col+"_H_team"] = home
		atts[col+"_A_team"] = away
		atts[col+"_dif_team"] = home - away
	}
	return atts
}

// outfieldDifference is the home outfield sum minus the away outfield sum.
// Any missing contribution makes the whole difference undefined.
func outfieldDifference(p Profile, col string) float64 {
	return outfieldSum(p.Home, col) - outfieldSum(p.Away, col)
}

func outfieldSum(sheet TeamSheet, col string) float64 {
	total := 0.0
	for _, snap := range sheet.Field {
		total += snap.Value(col)
	}
	return total
}

func exportSize(cols int, mode Mode) int {
	switch mode {
	case ModeAll:
		return cols * 2 * (OutfieldCount + 1)
	case ModeDiff:
		return cols * (OutfieldCount + 1)
	default:
		return cols * 2
	}
}
