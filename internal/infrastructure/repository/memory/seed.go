package memory

import (
	"time"

	"github.com/matchsight/matchsight/internal/domain/attrs"
	"github.com/matchsight/matchsight/internal/domain/match"
)

const (
	SeasonOne = "2014/2015"
	SeasonTwo = "2015/2016"
)

// Team api ids follow the source dataset's numbering for the clubs they name.
const (
	TeamAPIIDArsenal   int64 = 9825
	TeamAPIIDLiverpool int64 = 8650
	TeamAPIIDManCity   int64 = 8456
	TeamAPIIDManUnited int64 = 10260
)

const seedMatchAPIIDBase int64 = 1700000

var seedTeamAPIIDs = []int64{TeamAPIIDArsenal, TeamAPIIDLiverpool, TeamAPIIDManCity, TeamAPIIDManUnited}

// seedTeamStrength drives seeded ratings and results per team, in
// seedTeamAPIIDs order.
var seedTeamStrength = []int{77, 75, 79, 73}

// seedResults maps a season's pair index to goals, tuned so every team
// collects wins, draws and losses.
var seedResults = [][2]int{
	{2, 1}, {0, 0}, {3, 1}, {1, 2}, {2, 2}, {0, 1},
	{1, 0}, {2, 3}, {1, 1}, {4, 0}, {0, 2}, {2, 0},
}

// seedFormation is a 4-4-2. Slot 1 keeps goal at coordinate (1,1).
var seedFormation = [match.SquadSize][2]float64{
	{1, 1},
	{2, 3}, {4, 3}, {6, 3}, {8, 3},
	{2, 6}, {4, 6}, {6, 6}, {8, 6},
	{4, 10}, {6, 10},
}

// SeedTeamAPIIDs returns the seeded team ids in fixture order.
func SeedTeamAPIIDs() []int64 {
	return append([]int64(nil), seedTeamAPIIDs...)
}

// SeedSeasons returns the seeded seasons, oldest first.
func SeedSeasons() []string {
	return []string{SeasonOne, SeasonTwo}
}

// SeedPlayerAPIID derives the seeded player id for a team's lineup slot.
func SeedPlayerAPIID(teamAPIID int64, slot int) int64 {
	return teamAPIID*100 + int64(slot)
}

// SeedMatchRows returns two double round-robin seasons of raw match rows in
// kickoff order. Every row parses cleanly and resolves a full lineup.
func SeedMatchRows() []match.Row {
	starts := []time.Time{
		time.Date(2014, 8, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC),
	}

	rows := make([]match.Row, 0, 2*len(seedTeamAPIIDs)*(len(seedTeamAPIIDs)-1))
	matchAPIID := seedMatchAPIIDBase
	for s, season := range SeedSeasons() {
		pair := 0
		for h, homeID := range seedTeamAPIIDs {
			for a, awayID := range seedTeamAPIIDs {
				if h == a {
					continue
				}
				result := seedResults[(pair+7*s)%len(seedResults)]
				date := starts[s].AddDate(0, 0, 14*pair)
				rows = append(rows, seedMatchRow(matchAPIID, season, date, homeID, awayID, result[0], result[1]))
				matchAPIID++
				pair++
			}
		}
	}
	return rows
}

func seedMatchRow(matchAPIID int64, season string, date time.Time, homeID, awayID int64, homeGoals, awayGoals int) match.Row {
	row := match.Row{
		match.ColMatchAPIID:    matchAPIID,
		match.ColSeason:        season,
		match.ColDate:          date,
		match.ColHomeTeamAPIID: homeID,
		match.ColAwayTeamAPIID: awayID,
		match.ColHomeTeamGoal:  int64(homeGoals),
		match.ColAwayTeamGoal:  int64(awayGoals),
	}
	fillSeedLineup(row, match.SideHome, homeID)
	fillSeedLineup(row, match.SideAway, awayID)
	return row
}

func fillSeedLineup(row match.Row, side match.Side, teamAPIID int64) {
	for n := 1; n <= match.SquadSize; n++ {
		row[match.PlayerColumn(side, n)] = SeedPlayerAPIID(teamAPIID, n)
		x, y := match.CoordColumns(side, n)
		row[x] = seedFormation[n-1][0]
		row[y] = seedFormation[n-1][1]
	}
}

// SeedPlayerHistories returns dated attribute entries for every seeded
// player: one pre-season entry per season plus a winter update, dated so the
// first fixture of each season already has a snapshot.
func SeedPlayerHistories() map[int64]attrs.History {
	out := make(map[int64]attrs.History, len(seedTeamAPIIDs)*match.SquadSize)
	for t, teamID := range seedTeamAPIIDs {
		base := seedTeamStrength[t]
		for n := 1; n <= match.SquadSize; n++ {
			id := SeedPlayerAPIID(teamID, n)
			rating := float64(base + (n*3)%7 - 3)
			out[id] = attrs.History{
				seedPlayerEntry(id, time.Date(2014, 7, 15, 0, 0, 0, 0, time.UTC), rating),
				seedPlayerEntry(id, time.Date(2015, 2, 2, 0, 0, 0, 0, time.UTC), rating+1),
				seedPlayerEntry(id, time.Date(2015, 7, 20, 0, 0, 0, 0, time.UTC), rating+2),
			}
		}
	}
	return out
}

func seedPlayerEntry(id int64, date time.Time, rating float64) attrs.Entry {
	return attrs.Entry{
		EntityID: id,
		Date:     date,
		Values: map[string]float64{
			"overall_rating": rating,
			"potential":      rating + 4,
			"reactions":      rating - 2,
		},
	}
}

// SeedTeamHistories returns dated team attribute entries, one pre-season
// entry per season.
func SeedTeamHistories() map[int64]attrs.History {
	out := make(map[int64]attrs.History, len(seedTeamAPIIDs))
	for t, teamID := range seedTeamAPIIDs {
		out[teamID] = attrs.History{
			seedTeamEntry(teamID, time.Date(2014, 7, 10, 0, 0, 0, 0, time.UTC), t, 0),
			seedTeamEntry(teamID, time.Date(2015, 7, 10, 0, 0, 0, 0, time.UTC), t, 3),
		}
	}
	return out
}

func seedTeamEntry(teamID int64, date time.Time, t, bump int) attrs.Entry {
	return attrs.Entry{
		EntityID: teamID,
		Date:     date,
		Values: map[string]float64{
			"buildUpPlaySpeed":      float64(45 + 5*t + bump),
			"chanceCreationPassing": float64(52 + 3*t + bump),
			"defencePressure":       float64(40 + 4*t + bump),
		},
	}
}
