package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/matchsight/matchsight/internal/domain/features"
	"github.com/matchsight/matchsight/internal/domain/outcome"
	"github.com/matchsight/matchsight/internal/platform/logging"
)

func TestExtractionService_BuildReport(t *testing.T) {
	t.Parallel()

	rows := []features.Row{
		reportRow(1, "2015/2016", outcome.HomeWin, 1),
		reportRow(2, "2015/2016", outcome.HomeWin, 2),
		reportRow(3, "2015/2016", outcome.HomeLoss, 3),
		reportRow(4, "2016/2017", outcome.HomeLoss, 4),
		reportRow(5, "2016/2017", outcome.HomeLoss, 5),
		reportRow(6, "2016/2017", outcome.HomeLoss, 6),
	}

	svc := NewExtractionService(nil, stubPlayerAttrsRepo{}, stubTeamAttrsRepo{}, logging.NewNop())
	report, err := svc.BuildReport(context.Background(), ReportInput{Rows: rows})
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}

	if report.RowCount != 6 {
		t.Fatalf("expected 6 rows, got=%d", report.RowCount)
	}
	if len(report.Seasons) != 2 || report.Seasons[0] != "2015/2016" || report.Seasons[1] != "2016/2017" {
		t.Fatalf("unexpected seasons: %v", report.Seasons)
	}

	if report.Outcomes.Total != 6 {
		t.Fatalf("expected outcome total 6, got=%d", report.Outcomes.Total)
	}
	if len(report.Outcomes.Entries) != 2 {
		t.Fatalf("expected 2 outcome entries, got=%d", len(report.Outcomes.Entries))
	}
	if report.Outcomes.Entries[0].Value != string(outcome.HomeLoss) || report.Outcomes.Entries[0].Count != 4 {
		t.Fatalf("unexpected leading outcome: %+v", report.Outcomes.Entries[0])
	}

	// jumping_avg_diff is constant, so only the two moving columns pair up.
	if len(report.StrongPairs) != 1 {
		t.Fatalf("expected 1 strong pair, got=%+v", report.StrongPairs)
	}
	pair := report.StrongPairs[0]
	if pair.A != "overall_rating_avg_diff" || pair.B != "potential_avg_diff" {
		t.Fatalf("unexpected pair columns: %+v", pair)
	}
	if math.Abs(pair.R-1) > 1e-12 {
		t.Fatalf("expected correlation 1, got=%v", pair.R)
	}

	if report.SeasonChi == nil {
		t.Fatalf("expected a season chi-square result")
	}
	if report.SeasonChi.DoF != 1 {
		t.Fatalf("expected 1 degree of freedom, got=%d", report.SeasonChi.DoF)
	}
	// 2x2 crosstab [[1,2],[3,0]] with continuity correction.
	if math.Abs(report.SeasonChi.Statistic-0.75) > 1e-9 {
		t.Fatalf("expected statistic 0.75, got=%v", report.SeasonChi.Statistic)
	}
	if math.Abs(report.SeasonChi.PValue-0.3865) > 1e-3 {
		t.Fatalf("expected p-value near 0.3865, got=%v", report.SeasonChi.PValue)
	}
}

func TestExtractionService_BuildReport_SingleSeason(t *testing.T) {
	t.Parallel()

	rows := []features.Row{
		reportRow(1, "2015/2016", outcome.HomeWin, 1),
		reportRow(2, "2015/2016", outcome.HomeLoss, 2),
		reportRow(3, "2015/2016", outcome.Tie, 3),
	}

	svc := NewExtractionService(nil, stubPlayerAttrsRepo{}, stubTeamAttrsRepo{}, logging.NewNop())
	report, err := svc.BuildReport(context.Background(), ReportInput{Rows: rows})
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if report.SeasonChi != nil {
		t.Fatalf("expected no chi-square for a single season, got=%+v", report.SeasonChi)
	}
}

func TestExtractionService_BuildReport_OneSidedOutcomes(t *testing.T) {
	t.Parallel()

	rows := []features.Row{
		reportRow(1, "2015/2016", outcome.HomeWin, 1),
		reportRow(2, "2016/2017", outcome.HomeWin, 2),
	}

	svc := NewExtractionService(nil, stubPlayerAttrsRepo{}, stubTeamAttrsRepo{}, logging.NewNop())
	report, err := svc.BuildReport(context.Background(), ReportInput{Rows: rows})
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if report.SeasonChi != nil {
		t.Fatalf("expected no chi-square when every match ends the same way")
	}
}

func TestExtractionService_BuildReport_CustomCutoffs(t *testing.T) {
	t.Parallel()

	rows := []features.Row{
		reportRow(1, "2015/2016", outcome.HomeWin, 1),
		reportRow(2, "2015/2016", outcome.HomeLoss, 2),
		reportRow(3, "2015/2016", outcome.HomeWin, 3),
		reportRow(4, "2015/2016", outcome.HomeLoss, 4),
	}

	svc := NewExtractionService(nil, stubPlayerAttrsRepo{}, stubTeamAttrsRepo{}, logging.NewNop())

	// A cutoff of exactly 1 excludes even perfect correlation.
	report, err := svc.BuildReport(context.Background(), ReportInput{
		Rows:           rows,
		PositiveCutoff: 1,
		NegativeCutoff: -1,
	})
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if len(report.StrongPairs) != 0 {
		t.Fatalf("expected no pairs at cutoff 1, got=%+v", report.StrongPairs)
	}

	if _, err := svc.BuildReport(context.Background(), ReportInput{
		Rows:           rows,
		PositiveCutoff: 1.5,
		NegativeCutoff: -0.5,
	}); err == nil {
		t.Fatalf("expected cutoff validation error")
	}
}

func TestExtractionService_BuildReport_NoRows(t *testing.T) {
	t.Parallel()

	svc := NewExtractionService(nil, stubPlayerAttrsRepo{}, stubTeamAttrsRepo{}, logging.NewNop())
	if _, err := svc.BuildReport(context.Background(), ReportInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func reportRow(id int64, season string, result outcome.Outcome, a float64) features.Row {
	return features.Row{
		MatchAPIID: id,
		Season:     season,
		Date:       testKickoff,
		Outcome:    string(result),
		Values: map[string]float64{
			"overall_rating_avg_diff": a,
			"potential_avg_diff":      2 * a,
			"jumping_avg_diff":        5,
		},
	}
}
