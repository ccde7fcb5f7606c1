package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/matchsight/matchsight/internal/domain/attrs"
	"github.com/matchsight/matchsight/internal/domain/features"
	"github.com/matchsight/matchsight/internal/domain/match"
	"github.com/matchsight/matchsight/internal/domain/outcome"
	"github.com/matchsight/matchsight/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
)

// ExtractInput selects the attribute columns carried into feature rows and how
// squad values are aggregated.
type ExtractInput struct {
	// Columns are player attribute names, e.g. overall_rating.
	Columns []string
	// TeamColumns are team attribute names appended as <col>_H_team,
	// <col>_A_team and <col>_dif_team. Empty skips the team lookup.
	TeamColumns      []string
	Mode             features.Mode
	GoalkeeperPolicy match.GoalkeeperPolicy
}

// FeatureSink receives finished feature rows.
type FeatureSink interface {
	WriteRows(ctx context.Context, rows []features.Row) error
}

type ExtractionService struct {
	matchRepo  match.Repository
	playerRepo attrs.PlayerRepository
	teamRepo   attrs.TeamRepository
	logger     *logging.Logger
}

func NewExtractionService(
	matchRepo match.Repository,
	playerRepo attrs.PlayerRepository,
	teamRepo attrs.TeamRepository,
	logger *logging.Logger,
) *ExtractionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ExtractionService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

// ExtractRecord turns one parsed match record into a feature row. Attribute
// histories are cut off at kickoff, so every value is the last one observed
// strictly before the match.
func (s *ExtractionService) ExtractRecord(ctx context.Context, rec match.Record, input ExtractInput) (features.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionService.ExtractRecord")
	defer span.End()

	input, err := normalizeExtractInput(input)
	if err != nil {
		return features.Row{}, err
	}
	if s.playerRepo == nil || (len(input.TeamColumns) > 0 && s.teamRepo == nil) {
		return features.Row{}, fmt.Errorf("%w: attribute repositories are not configured", ErrDependencyUnavailable)
	}
	if err := rec.Validate(); err != nil {
		return features.Row{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	playerHistories, teamHistories, err := s.loadHistories(ctx, rec, len(input.TeamColumns) > 0)
	if err != nil {
		return features.Row{}, err
	}

	profile, err := features.FromRecord(rec, playerHistories, teamHistories, input.GoalkeeperPolicy)
	if err != nil {
		return features.Row{}, fmt.Errorf("resolve lineups match_api_id=%d: %w", rec.MatchAPIID, err)
	}

	values := features.Export(profile, input.Columns, input.Mode)
	for name, value := range features.ExportTeam(profile, input.TeamColumns) {
		values[name] = value
	}

	return features.Row{
		MatchAPIID:    rec.MatchAPIID,
		Season:        rec.Season,
		Date:          rec.Date,
		HomeTeamAPIID: rec.HomeTeamAPIID,
		AwayTeamAPIID: rec.AwayTeamAPIID,
		HomeGoals:     rec.HomeGoals,
		AwayGoals:     rec.AwayGoals,
		Outcome:       string(outcome.FromGoals(rec.HomeGoals, rec.AwayGoals)),
		Values:        values,
	}, nil
}

// ExtractRow parses a raw source row and extracts its feature row.
func (s *ExtractionService) ExtractRow(ctx context.Context, raw match.Row, input ExtractInput) (features.Row, error) {
	rec, err := match.FromRow(raw)
	if err != nil {
		return features.Row{}, err
	}
	return s.ExtractRecord(ctx, rec, input)
}

// loadHistories fetches player and team attribute histories concurrently.
func (s *ExtractionService) loadHistories(
	ctx context.Context,
	rec match.Record,
	withTeams bool,
) (map[int64]attrs.History, map[int64]attrs.History, error) {
	var (
		wg conc.WaitGroup

		playerHistories map[int64]attrs.History
		playerErr       error
		teamHistories   map[int64]attrs.History
		teamErr         error
	)

	wg.Go(func() {
		playerHistories, playerErr = s.playerRepo.PlayerHistories(ctx, rec.PlayerIDs(), rec.Date)
	})
	if withTeams {
		wg.Go(func() {
			teamHistories, teamErr = s.teamRepo.TeamHistories(ctx, rec.TeamIDs(), rec.Date)
		})
	}
	wg.Wait()

	if playerErr != nil {
		return nil, nil, fmt.Errorf("load player attribute histories match_api_id=%d: %w", rec.MatchAPIID, playerErr)
	}
	if teamErr != nil {
		return nil, nil, fmt.Errorf("load team attribute histories match_api_id=%d: %w", rec.MatchAPIID, teamErr)
	}
	return playerHistories, teamHistories, nil
}

type BatchInput struct {
	Filter     match.Filter
	Extract    ExtractInput
	MaxWorkers int
}

type BatchResult struct {
	RowCount     int              `json:"row_count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	WorkerCount  int              `json:"worker_count"`
	Rows         []features.Row   `json:"-"`
	Failures     []ExtractFailure `json:"failures,omitempty"`
}

// ExtractFailure records one source row that produced no feature row.
type ExtractFailure struct {
	MatchAPIID int64  `json:"match_api_id"`
	RowIndex   int    `json:"row_index"`
	Reason     string `json:"reason"`
}

// ExtractBatch lists the filtered match rows and extracts them on a worker
// pool. A bad row is reported in Failures and the batch keeps going; only
// repository and pool errors abort.
func (s *ExtractionService) ExtractBatch(ctx context.Context, input BatchInput) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionService.ExtractBatch")
	defer span.End()

	if s.matchRepo == nil {
		return BatchResult{}, fmt.Errorf("%w: match repository is not configured", ErrDependencyUnavailable)
	}
	if _, err := normalizeExtractInput(input.Extract); err != nil {
		return BatchResult{}, err
	}

	rows, err := s.matchRepo.ListRows(ctx, input.Filter)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list match rows: %w", err)
	}

	workerCount := normalizeExtractWorkerCount(input.MaxWorkers, len(rows))
	result := BatchResult{
		RowCount:    len(rows),
		WorkerCount: workerCount,
	}
	if len(rows) == 0 {
		return result, nil
	}

	type rowOutcome struct {
		index      int
		matchAPIID int64
		row        features.Row
		err        error
	}
	results := make(chan rowOutcome, len(rows))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for index := range rows {
		index := index
		raw := rows[index]
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row, err := s.ExtractRow(ctx, raw, input.Extract)
			if err != nil {
				failedCount.Add(1)
				results <- rowOutcome{index: index, matchAPIID: match.RowMatchAPIID(raw), err: err}
				return
			}

			successCount.Add(1)
			results <- rowOutcome{index: index, matchAPIID: row.MatchAPIID, row: row}
		}); err != nil {
			workers.Done()
			return BatchResult{}, fmt.Errorf("submit row to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for item := range results {
		if item.err != nil {
			result.Failures = append(result.Failures, ExtractFailure{
				MatchAPIID: item.matchAPIID,
				RowIndex:   item.index,
				Reason:     item.err.Error(),
			})
			continue
		}
		result.Rows = append(result.Rows, item.row)
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		if !result.Rows[i].Date.Equal(result.Rows[j].Date) {
			return result.Rows[i].Date.Before(result.Rows[j].Date)
		}
		return result.Rows[i].MatchAPIID < result.Rows[j].MatchAPIID
	})
	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].RowIndex < result.Failures[j].RowIndex
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	if result.FailedCount > 0 {
		s.logger.WarnContext(ctx, "some match rows were skipped",
			"row_count", result.RowCount,
			"success_count", result.SuccessCount,
			"failed_count", result.FailedCount,
		)
	}
	return result, nil
}

// ExtractToSink runs a batch extraction and hands the surviving rows to the
// sink. Per-row failures do not block the write; a sink error does.
func (s *ExtractionService) ExtractToSink(ctx context.Context, input BatchInput, sink FeatureSink) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExtractionService.ExtractToSink")
	defer span.End()

	if sink == nil {
		return BatchResult{}, fmt.Errorf("%w: feature sink is required", ErrInvalidInput)
	}

	result, err := s.ExtractBatch(ctx, input)
	if err != nil {
		return BatchResult{}, err
	}
	if len(result.Rows) > 0 {
		if err := sink.WriteRows(ctx, result.Rows); err != nil {
			return result, fmt.Errorf("write feature rows: %w", err)
		}
	}
	return result, nil
}

func normalizeExtractInput(input ExtractInput) (ExtractInput, error) {
	input.Columns = normalizeAttributeColumns(input.Columns)
	if len(input.Columns) == 0 {
		return ExtractInput{}, fmt.Errorf("%w: at least one attribute column is required", ErrInvalidInput)
	}
	input.TeamColumns = normalizeAttributeColumns(input.TeamColumns)

	switch input.Mode {
	case features.ModeAll, features.ModeDiff, features.ModeAvgDiff, features.ModeAvg:
	default:
		return ExtractInput{}, fmt.Errorf("%w: unsupported export mode %q", ErrInvalidInput, string(input.Mode))
	}

	switch input.GoalkeeperPolicy {
	case match.GoalkeeperLenient, match.GoalkeeperStrict:
	default:
		return ExtractInput{}, fmt.Errorf("%w: unsupported goalkeeper policy %d", ErrInvalidInput, input.GoalkeeperPolicy)
	}

	return input, nil
}

func normalizeAttributeColumns(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		col := strings.TrimSpace(item)
		if col == "" {
			continue
		}
		if _, exists := seen[col]; exists {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	return out
}

func normalizeExtractWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = runtime.GOMAXPROCS(0)
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
