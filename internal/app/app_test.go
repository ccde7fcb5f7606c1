package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/matchsight/matchsight/internal/config"
	"github.com/matchsight/matchsight/internal/domain/features"
	"github.com/matchsight/matchsight/internal/domain/outcome"
	"github.com/matchsight/matchsight/internal/infrastructure/repository/memory"
	"github.com/matchsight/matchsight/internal/platform/logging"
)

// offlineConfig is a memory-store run with every network-facing integration
// disabled.
func offlineConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:               config.EnvDev,
		ServiceName:          "matchsight-export-test",
		ServiceVersion:       "test",
		MatchStore:           config.StoreMemory,
		Columns:              []string{"overall_rating"},
		TeamColumns:          []string{"buildUpPlaySpeed"},
		Mode:                 "all",
		MaxWorkers:           4,
		ExportPath:           filepath.Join(t.TempDir(), "features.jsonl"),
		ReportEnabled:        true,
		ReportPositiveCutoff: 0.5,
		ReportNegativeCutoff: -0.5,
	}
}

func TestRun_MemoryStoreExportsSeededRows(t *testing.T) {
	cfg := offlineConfig(t)

	if err := Run(context.Background(), cfg, logging.NewNop()); err != nil {
		t.Fatalf("run pipeline: %v", err)
	}

	data, err := os.ReadFile(cfg.ExportPath)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if want := len(memory.SeedMatchRows()); len(lines) != want {
		t.Fatalf("expected %d exported rows, got %d", want, len(lines))
	}

	var row struct {
		MatchAPIID int64               `json:"match_api_id"`
		Season     string              `json:"season"`
		Outcome    string              `json:"outcome"`
		Features   map[string]*float64 `json:"features"`
	}
	if err := sonic.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatalf("decode first row: %v", err)
	}
	if row.MatchAPIID == 0 {
		t.Fatalf("first row has no match_api_id: %s", lines[0])
	}
	if row.Season != memory.SeasonOne {
		t.Fatalf("expected rows sorted by kickoff, first season %q", row.Season)
	}
	switch outcome.Outcome(row.Outcome) {
	case outcome.HomeWin, outcome.HomeLoss, outcome.Tie:
	default:
		t.Fatalf("unexpected outcome label %q", row.Outcome)
	}

	for _, name := range []string{"overall_rating_H_1", "overall_rating_A_gk", "buildUpPlaySpeed_dif_team"} {
		value, ok := row.Features[name]
		if !ok {
			t.Fatalf("feature %q missing from %s", name, lines[0])
		}
		if value == nil {
			t.Fatalf("feature %q is null for a fully seeded match", name)
		}
	}
}

func TestRun_RejectsUnknownExportMode(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Mode = "median"

	err := Run(context.Background(), cfg, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "export mode") {
		t.Fatalf("expected export mode error, got %v", err)
	}
}

func TestMultiSink_StopsOnFirstError(t *testing.T) {
	errBroken := errors.New("broken sink")
	var delivered int

	sink := multiSink{
		&stubSink{err: errBroken},
		&stubSink{delivered: &delivered},
	}

	err := sink.WriteRows(context.Background(), []features.Row{{MatchAPIID: 1}})
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if delivered != 0 {
		t.Fatalf("expected fan-out to stop after the failed sink")
	}
}

func TestMultiSink_DeliversToEverySink(t *testing.T) {
	var first, second int
	sink := multiSink{
		&stubSink{delivered: &first},
		&stubSink{delivered: &second},
	}

	rows := []features.Row{{MatchAPIID: 1}, {MatchAPIID: 2}}
	if err := sink.WriteRows(context.Background(), rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if first != len(rows) || second != len(rows) {
		t.Fatalf("expected both sinks to see %d rows, got %d and %d", len(rows), first, second)
	}
}

type stubSink struct {
	err       error
	delivered *int
}

func (s *stubSink) WriteRows(_ context.Context, rows []features.Row) error {
	if s.err != nil {
		return s.err
	}
	if s.delivered != nil {
		*s.delivered += len(rows)
	}
	return nil
}
