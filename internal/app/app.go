// Package app wires configuration, storage, observability, and the extraction
// use case into one runnable pipeline.
package app

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"

	"github.com/matchsight/matchsight/internal/config"
	"github.com/matchsight/matchsight/internal/domain/attrs"
	"github.com/matchsight/matchsight/internal/domain/features"
	"github.com/matchsight/matchsight/internal/domain/match"
	"github.com/matchsight/matchsight/internal/export"
	cacherepo "github.com/matchsight/matchsight/internal/infrastructure/repository/cache"
	"github.com/matchsight/matchsight/internal/infrastructure/repository/memory"
	"github.com/matchsight/matchsight/internal/infrastructure/repository/postgres"
	"github.com/matchsight/matchsight/internal/observability"
	basecache "github.com/matchsight/matchsight/internal/platform/cache"
	"github.com/matchsight/matchsight/internal/platform/id"
	"github.com/matchsight/matchsight/internal/platform/logging"
	"github.com/matchsight/matchsight/internal/usecase"
)

const (
	tracingShutdownTimeout = 10 * time.Second
	pprofShutdownTimeout   = 5 * time.Second
)

var appTracer = otel.Tracer("matchsight/internal/app")

// Run executes one extraction pass end to end: list the filtered match rows,
// derive feature rows on the worker pool, hand them to the configured sinks,
// and summarize the run. Run owns the lifecycle of everything it opens.
func Run(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	runID, err := id.NewRunID()
	if err != nil {
		return fmt.Errorf("mint run id: %w", err)
	}
	logger = logger.With("run_id", runID)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("start pprof server: %w", err)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, pprofShutdownTimeout); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	ctx, span := appTracer.Start(ctx, "pipeline.run")
	defer span.End()

	logger.Info("extraction pipeline starting",
		"store", cfg.MatchStore,
		"mode", cfg.Mode,
		"column_count", len(cfg.Columns),
		"team_column_count", len(cfg.TeamColumns),
	)

	input, err := batchInputFromConfig(cfg)
	if err != nil {
		return err
	}

	var db *sqlx.DB
	if cfg.MatchStore == config.StorePostgres || cfg.ExportToStore {
		db, err = openMatchDB(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("close match database", "error", err)
			}
		}()

		if cfg.MatchStore == config.StorePostgres && cfg.SeedOnStart {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return fmt.Errorf("seed match database: %w", err)
			}
		}
	}

	matchRepo, playerRepo, teamRepo := buildRepositories(cfg, db)
	svc := usecase.NewExtractionService(matchRepo, playerRepo, teamRepo, logger)

	sink, closeSink, err := buildSink(cfg, db, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	started := time.Now()
	result, err := svc.ExtractToSink(ctx, input, sink)
	if err != nil {
		return fmt.Errorf("extract features: %w", err)
	}

	for _, failure := range result.Failures {
		logger.DebugContext(ctx, "match row skipped",
			"match_api_id", failure.MatchAPIID,
			"row_index", failure.RowIndex,
			"reason", failure.Reason,
		)
	}
	logger.InfoContext(ctx, "extraction finished",
		"row_count", result.RowCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
		"worker_count", result.WorkerCount,
		"elapsed", time.Since(started),
	)

	if cfg.ReportEnabled && len(result.Rows) > 0 {
		report, err := svc.BuildReport(ctx, usecase.ReportInput{
			Rows:           result.Rows,
			PositiveCutoff: cfg.ReportPositiveCutoff,
			NegativeCutoff: cfg.ReportNegativeCutoff,
		})
		if err != nil {
			return fmt.Errorf("build report: %w", err)
		}
		payload, err := sonic.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		logger.InfoContext(ctx, "run report", "report", string(payload))
	}

	return nil
}

// buildRepositories selects the match store. The cache decorators only make
// sense in front of the database; the in-memory store is already warm.
func buildRepositories(cfg config.Config, db *sqlx.DB) (match.Repository, attrs.PlayerRepository, attrs.TeamRepository) {
	if cfg.MatchStore == config.StorePostgres {
		var (
			players attrs.PlayerRepository = postgres.NewPlayerAttributeRepository(db)
			teams   attrs.TeamRepository   = postgres.NewTeamAttributeRepository(db)
		)
		if cfg.CacheEnabled {
			players = cacherepo.NewPlayerAttributeRepository(players, basecache.NewStore(cfg.CacheTTL))
			teams = cacherepo.NewTeamAttributeRepository(teams, basecache.NewStore(cfg.CacheTTL))
		}
		return postgres.NewMatchRepository(db), players, teams
	}

	return memory.NewMatchRepository(memory.SeedMatchRows()),
		memory.NewPlayerAttributeRepository(memory.SeedPlayerHistories()),
		memory.NewTeamAttributeRepository(memory.SeedTeamHistories())
}

func batchInputFromConfig(cfg config.Config) (usecase.BatchInput, error) {
	mode, err := features.ParseMode(cfg.Mode)
	if err != nil {
		return usecase.BatchInput{}, fmt.Errorf("parse export mode: %w", err)
	}

	policy := match.GoalkeeperLenient
	if cfg.StrictKeepers {
		policy = match.GoalkeeperStrict
	}

	return usecase.BatchInput{
		Filter: match.Filter{Seasons: cfg.Seasons, Limit: cfg.RowLimit},
		Extract: usecase.ExtractInput{
			Columns:          cfg.Columns,
			TeamColumns:      cfg.TeamColumns,
			Mode:             mode,
			GoalkeeperPolicy: policy,
		},
		MaxWorkers: cfg.MaxWorkers,
	}, nil
}

// buildSink always opens the JSONL target; the database sink joins it when
// EXPORT_TO_DB is set.
func buildSink(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (usecase.FeatureSink, func(), error) {
	jsonl, err := export.NewJSONLSink(cfg.ExportPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open export sink: %w", err)
	}
	closeSink := func() {
		if err := jsonl.Close(); err != nil {
			logger.Warn("close export sink", "error", err)
		}
	}

	if !cfg.ExportToStore {
		return jsonl, closeSink, nil
	}
	return multiSink{jsonl, postgres.NewMatchFeatureRepository(db)}, closeSink, nil
}

// multiSink fans feature rows out to every sink in order. The first error
// stops the fan-out.
type multiSink []usecase.FeatureSink

func (m multiSink) WriteRows(ctx context.Context, rows []features.Row) error {
	for _, sink := range m {
		if err := sink.WriteRows(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}
