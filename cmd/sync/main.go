// Command sync pulls several feed slices into the store concurrently, one
// transaction per slice. Targets come from the arguments or SYNC_TARGETS.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/basket-api/internal/app"
	"github.com/riskibarqy/basket-api/internal/config"
	"github.com/riskibarqy/basket-api/internal/observability"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-sync", "env", cfg.AppEnv)
	logging.SetDefault(logger)

	code := run(cfg, logger, os.Args[1:])
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, logger *logging.Logger, args []string) int {
	raw := cfg.SyncTargets
	if len(args) > 0 {
		raw = args
	}
	targets, err := parseTargets(raw)
	if err != nil {
		logger.Error("parse sync targets", "error", err)
		return 2
	}
	if len(targets) == 0 {
		logger.Error("no sync targets", "hint", "pass league=176&season=2023-2024 or set SYNC_TARGETS")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() { _ = container.Close() }()
	if container.Batch == nil {
		logger.Error("sync needs FEED_API_KEY")
		return 1
	}

	result, err := container.Batch.Run(ctx, usecase.BatchRefreshInput{
		Targets:    targets,
		MaxWorkers: cfg.SyncWorkers,
	})
	if err != nil {
		logger.Error("sync failed", "error", err)
		return 1
	}

	for _, task := range result.Tasks {
		logger.Info("sync target",
			"index", task.Index,
			"league_id", task.LeagueID,
			"season", task.Season,
			"date", task.Date,
			"team_id", task.TeamID,
			"status", task.Status,
			"games", task.Games,
			"duration_ms", task.DurationMs,
			"message", task.Message,
		)
	}
	if result.FailedCount > 0 {
		return 1
	}
	return 0
}
