package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Pair is a feature pair kept by a correlation cut.
type Pair struct {
	A string
	B string
	R float64
}

// CorrelationCut selects which correlation band survives. By default the
// values inside [NegativeCutoff, PositiveCutoff] are dropped; LeaveCenter
// inverts that and keeps the strict inside of the band.
type CorrelationCut struct {
	PositiveCutoff float64
	NegativeCutoff float64
	LeaveCenter    bool
}

func (c CorrelationCut) validate() error {
	if c.PositiveCutoff < 0 || c.PositiveCutoff > 1 {
		return fmt.Errorf("positive cut-off must be between 0 and 1")
	}
	if c.NegativeCutoff < -1 || c.NegativeCutoff > 0 {
		return fmt.Errorf("negative cut-off must be between -1 and 0")
	}
	return nil
}

func (c CorrelationCut) keep(r float64) bool {
	if c.LeaveCenter {
		return r > c.NegativeCutoff && r < c.PositiveCutoff
	}
	return r < c.NegativeCutoff || r > c.PositiveCutoff
}

// CorrelationPairs computes pairwise Pearson correlations over complete
// observations and returns the unordered feature pairs surviving the cut,
// deduplicated, in matrix scan order. Undefined correlations (constant or
// near-empty columns) never appear.
func CorrelationPairs(f *Frame, cut CorrelationCut) ([]Pair, error) {
	if err := cut.validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("frame is required")
	}

	names := f.names
	seen := make(map[[2]int]struct{})
	var out []Pair
	for i := range names {
		for j := range names {
			if i == j {
				continue
			}
			key := [2]int{i, j}
			if j < i {
				key = [2]int{j, i}
			}
			if _, ok := seen[key]; ok {
				continue
			}

			r := pairwiseCorrelation(f.cols[i], f.cols[j])
			if math.IsNaN(r) || !cut.keep(r) {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Pair{A: names[i], B: names[j], R: r})
		}
	}
	return out, nil
}

// pairwiseCorrelation drops rows where either side is missing, the same
// complete-observation rule the source data tooling applies.
func pairwiseCorrelation(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	// Rounding can push a perfect correlation a hair past +/-1; the
	// coefficient is bounded, so clamp before the cut sees it.
	return math.Max(-1, math.Min(1, r))
}
