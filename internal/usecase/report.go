package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/matchsight/matchsight/internal/domain/features"
	"github.com/matchsight/matchsight/pkg/stats"
)

const (
	defaultPositiveCutoff = 0.5
	defaultNegativeCutoff = -0.5
)

// ReportInput configures the post-extraction summary.
type ReportInput struct {
	Rows []features.Row
	// PositiveCutoff and NegativeCutoff bound the correlation band treated
	// as noise. Both zero falls back to +0.5 and -0.5.
	PositiveCutoff float64
	NegativeCutoff float64
}

// Report summarizes one extraction run: outcome frequencies, feature pairs
// correlated beyond the cutoffs, and a season-versus-outcome independence
// test when the rows span more than one season.
type Report struct {
	RowCount    int                    `json:"row_count"`
	Seasons     []string               `json:"seasons"`
	Outcomes    stats.FrequencyTable   `json:"outcomes"`
	StrongPairs []stats.Pair           `json:"strong_pairs"`
	SeasonChi   *stats.ChiSquareResult `json:"season_chi,omitempty"`
}

func (s *ExtractionService) BuildReport(ctx context.Context, input ReportInput) (Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionService.BuildReport")
	defer span.End()

	if len(input.Rows) == 0 {
		return Report{}, fmt.Errorf("%w: at least one feature row is required", ErrInvalidInput)
	}

	cut := stats.CorrelationCut{
		PositiveCutoff: input.PositiveCutoff,
		NegativeCutoff: input.NegativeCutoff,
	}
	if cut.PositiveCutoff == 0 && cut.NegativeCutoff == 0 {
		cut.PositiveCutoff = defaultPositiveCutoff
		cut.NegativeCutoff = defaultNegativeCutoff
	}

	outcomes := make([]string, 0, len(input.Rows))
	seasons := make([]string, 0, len(input.Rows))
	for _, row := range input.Rows {
		outcomes = append(outcomes, row.Outcome)
		seasons = append(seasons, row.Season)
	}

	frame, err := featureFrame(input.Rows)
	if err != nil {
		return Report{}, err
	}
	pairs, err := stats.CorrelationPairs(frame, cut)
	if err != nil {
		return Report{}, fmt.Errorf("scan correlation pairs: %w", err)
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		left, right := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if left != right {
			return left > right
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	report := Report{
		RowCount:    len(input.Rows),
		Seasons:     distinctSorted(seasons),
		Outcomes:    stats.Frequencies(outcomes),
		StrongPairs: pairs,
	}

	// The independence test needs at least a 2x2 table.
	if len(report.Seasons) > 1 && len(report.Outcomes.Entries) > 1 {
		chi, err := stats.ChiSquareTest(seasons, outcomes)
		if err != nil {
			return Report{}, fmt.Errorf("season versus outcome test: %w", err)
		}
		report.SeasonChi = chi
	}

	s.logger.DebugContext(ctx, "report built",
		"row_count", report.RowCount,
		"season_count", len(report.Seasons),
		"strong_pair_count", len(report.StrongPairs),
	)
	return report, nil
}

// featureFrame lays feature values out column-wise, one column per feature
// name in lexical order. Rows missing a name contribute NaN so pairwise
// correlation drops them instead of shifting observations.
func featureFrame(rows []features.Row) (*stats.Frame, error) {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, row := range rows {
		for name := range row.Values {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	frame := stats.NewFrame()
	for _, name := range names {
		column := make([]float64, len(rows))
		for i, row := range rows {
			value, ok := row.Values[name]
			if !ok {
				value = math.NaN()
			}
			column[i] = value
		}
		if err := frame.Add(name, column); err != nil {
			return nil, fmt.Errorf("assemble feature frame: %w", err)
		}
	}
	return frame, nil
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
