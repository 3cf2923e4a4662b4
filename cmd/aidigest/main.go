package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"aidigest/internal/app"
	"aidigest/internal/config"
	"aidigest/internal/logging"
)

const usage = `Usage: aidigest [command]

Commands:
  run-once   collect articles and publish today's digest, then exit
  collect    collect and store articles without publishing
  digest     publish a digest from already stored articles
  schedule   run the daily digest job on the configured cron schedule (default)
`

func main() {
	// Missing .env is fine; real deployments use process environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	command := "schedule"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	switch command {
	case "run-once":
		result, err := application.RunOnce(ctx)
		if err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
		if !result.Success {
			logger.Warn("digest not published", "reason", result.Reason, "error", result.Error)
		}
	case "collect":
		count, err := application.Collect(ctx)
		if err != nil {
			logger.Error("collection failed", "error", err)
			os.Exit(1)
		}
		logger.Info("collection complete", "new_articles", count)
	case "digest":
		result := application.Digest(ctx, "")
		if !result.Success {
			logger.Error("digest failed", "reason", result.Reason, "error", result.Error)
			os.Exit(1)
		}
		logger.Info("digest published", "articles", result.ArticleCount, "message_id", result.MessageID)
	case "schedule":
		if err := application.Schedule(ctx); err != nil {
			logger.Error("scheduler stopped", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}
