package outcome

// Outcome is a match result seen from the home side. The literals match the
// labels carried through the historical dataset.
type Outcome string

const (
	HomeWin  Outcome = "Home Win"
	HomeLoss Outcome = "Home Loss"
	Tie      Outcome = "Tie"
)

// FromGoals labels a final score.
func FromGoals(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return HomeWin
	case homeGoals < awayGoals:
		return HomeLoss
	default:
		return Tie
	}
}
