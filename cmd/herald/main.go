package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"

	"github.com/herald-rss/herald/internal/di"
	announceservice "github.com/herald-rss/herald/internal/modules/announce/service"
	sharederrors "github.com/herald-rss/herald/internal/shared/errors"
)

func main() {
	// Structured logging to two handlers: human-readable text on stdout,
	// JSON errors on stderr for collectors.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))

	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	runner, err := do.Invoke[*announceservice.Runner](injector)
	if err != nil {
		if errors.Is(err, sharederrors.ErrMissingFeedsFile) {
			slog.Error("Feeds configuration file not found, create it with your feeds", "error", err)
		} else {
			slog.Error("Failed to initialize", "error", err)
		}
		os.Exit(1)
	}

	// One announce pass per invocation; scheduling belongs to cron.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("Starting announce run")
	if err := runner.Run(ctx); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Run complete")
}
