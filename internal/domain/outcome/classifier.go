package outcome

import "fmt"

// ProbPair carries the modeled win and loss probabilities for one match.
type ProbPair struct {
	Win  float64
	Loss float64
}

// ProbDiffClassifier labels a match from the spread between win and loss
// probabilities. The win call needs the spread strictly above CoefA, the
// loss call needs it strictly below -CoefB; everything between is a tie.
type ProbDiffClassifier struct {
	CoefA float64
	CoefB float64
}

func (c ProbDiffClassifier) Predict(win, loss float64) Outcome {
	dif := win - loss
	switch {
	case dif > c.CoefA:
		return HomeWin
	case dif < -c.CoefB:
		return HomeLoss
	default:
		return Tie
	}
}

// WinProbClassifier labels a match from the home-win probability alone. The
// win band starts at 1-CoefWin inclusive, the loss band ends at CoefLoss
// inclusive.
type WinProbClassifier struct {
	CoefWin  float64
	CoefLoss float64
}

func (c WinProbClassifier) Predict(winProb float64) Outcome {
	switch {
	case winProb >= 1-c.CoefWin:
		return HomeWin
	case winProb <= c.CoefLoss:
		return HomeLoss
	default:
		return Tie
	}
}

// Misses flags each wrong guess with 1 and each correct one with 0.
func Misses(guesses, actual []Outcome) ([]int, error) {
	if len(guesses) != len(actual) {
		return nil, fmt.Errorf("guesses and outcomes differ in length: %d vs %d", len(guesses), len(actual))
	}
	out := make([]int, len(guesses))
	for i := range guesses {
		if guesses[i] != actual[i] {
			out[i] = 1
		}
	}
	return out, nil
}

// EvaluateProbDiff labels every probability pair and flags misses against
// the actual outcomes.
func EvaluateProbDiff(c ProbDiffClassifier, probs []ProbPair, actual []Outcome) ([]int, error) {
	guesses := make([]Outcome, len(probs))
	for i, p := range probs {
		guesses[i] = c.Predict(p.Win, p.Loss)
	}
	return Misses(guesses, actual)
}

// EvaluateWinProb labels every win probability and flags misses against the
// actual outcomes.
func EvaluateWinProb(c WinProbClassifier, probs []float64, actual []Outcome) ([]int, error) {
	guesses := make([]Outcome, len(probs))
	for i, p := range probs {
		guesses[i] = c.Predict(p)
	}
	return Misses(guesses, actual)
}
