package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matchsight/matchsight/internal/app"
	"github.com/matchsight/matchsight/internal/config"
	"github.com/matchsight/matchsight/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer syncLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("extraction pipeline failed", "error", err)
		syncLogger(logger)
		os.Exit(1)
	}
}

func syncLogger(logger *logging.Logger) {
	if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
		logger.Warn("logger sync failed", "error", err)
	}
}

// Syncing a terminal stderr reports EINVAL or EBADF depending on platform;
// neither loses records.
func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
