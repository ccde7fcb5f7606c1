package outcome

import (
	"math"
	"testing"
)

func TestFromGoals(t *testing.T) {
	t.Parallel()

	if got := FromGoals(2, 1); got != HomeWin {
		t.Fatalf("unexpected outcome: got=%q want=%q", got, HomeWin)
	}
	if got := FromGoals(0, 3); got != HomeLoss {
		t.Fatalf("unexpected outcome: got=%q want=%q", got, HomeLoss)
	}
	if got := FromGoals(1, 1); got != Tie {
		t.Fatalf("unexpected outcome: got=%q want=%q", got, Tie)
	}
}

func TestProbDiffClassifier_Boundaries(t *testing.T) {
	t.Parallel()

	// Probabilities are powers-of-two sums so the spreads land exactly on
	// the cut-offs.
	c := ProbDiffClassifier{CoefA: 0.25, CoefB: 0.125}

	// The win call needs a spread strictly above CoefA.
	if got := c.Predict(0.75, 0.5); got != Tie {
		t.Fatalf("spread exactly CoefA: got=%q want=%q", got, Tie)
	}
	if got := c.Predict(0.8125, 0.5); got != HomeWin {
		t.Fatalf("spread above CoefA: got=%q want=%q", got, HomeWin)
	}

	// The loss call needs a spread strictly below -CoefB.
	if got := c.Predict(0.375, 0.5); got != Tie {
		t.Fatalf("spread exactly -CoefB: got=%q want=%q", got, Tie)
	}
	if got := c.Predict(0.25, 0.5); got != HomeLoss {
		t.Fatalf("spread below -CoefB: got=%q want=%q", got, HomeLoss)
	}
}

func TestProbDiffClassifier_UndefinedProbabilitiesFallToTie(t *testing.T) {
	t.Parallel()

	c := ProbDiffClassifier{CoefA: 0.2, CoefB: 0.1}
	if got := c.Predict(math.NaN(), 0.4); got != Tie {
		t.Fatalf("NaN spread: got=%q want=%q", got, Tie)
	}
}

func TestWinProbClassifier_Boundaries(t *testing.T) {
	t.Parallel()

	c := WinProbClassifier{CoefWin: 0.4, CoefLoss: 0.25}

	// The win band starts at 1-CoefWin inclusive.
	if got := c.Predict(0.6); got != HomeWin {
		t.Fatalf("probability at win bound: got=%q want=%q", got, HomeWin)
	}
	if got := c.Predict(0.59); got != Tie {
		t.Fatalf("probability below win bound: got=%q want=%q", got, Tie)
	}

	// The loss band ends at CoefLoss inclusive.
	if got := c.Predict(0.25); got != HomeLoss {
		t.Fatalf("probability at loss bound: got=%q want=%q", got, HomeLoss)
	}
	if got := c.Predict(0.26); got != Tie {
		t.Fatalf("probability above loss bound: got=%q want=%q", got, Tie)
	}
}

func TestEvaluateProbDiff(t *testing.T) {
	t.Parallel()

	c := ProbDiffClassifier{CoefA: 0.2, CoefB: 0.1}
	probs := []ProbPair{
		{Win: 0.70, Loss: 0.10}, // Home Win
		{Win: 0.20, Loss: 0.50}, // Home Loss
		{Win: 0.40, Loss: 0.35}, // Tie
	}
	actual := []Outcome{HomeWin, Tie, Tie}

	misses, err := EvaluateProbDiff(c, probs, actual)
	if err != nil {
		t.Fatalf("EvaluateProbDiff error: %v", err)
	}

	want := []int{0, 1, 0}
	for i := range want {
		if misses[i] != want[i] {
			t.Fatalf("unexpected miss at %d: got=%d want=%d", i, misses[i], want[i])
		}
	}
}

func TestEvaluateWinProb_LengthMismatch(t *testing.T) {
	t.Parallel()

	c := WinProbClassifier{CoefWin: 0.4, CoefLoss: 0.25}
	if _, err := EvaluateWinProb(c, []float64{0.5, 0.9}, []Outcome{Tie}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
