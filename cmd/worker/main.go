package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/database"
	"github.com/hugh/go-roster/internal/store"
	"github.com/hugh/go-roster/internal/tasks"
	"github.com/hugh/go-roster/pkg/config"
	"github.com/hugh/go-roster/pkg/credential"
	"github.com/hugh/go-roster/pkg/queue"
	"github.com/hugh/go-roster/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting roster worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	service := accounts.NewService(
		store.New(db),
		credential.NewBcryptHasher(cfg.Security.BcryptCost),
		logger,
	)

	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency, logger)

	mux := asynq.NewServeMux()
	tasks.NewHandler(service, logger).RegisterHandlers(mux)

	scheduler := queue.NewScheduler(&cfg.Redis, logger)
	sweep, err := tasks.NewPrimaryRoleSweepTask("cron")
	if err != nil {
		logger.Error("failed to build sweep task", "error", err)
		os.Exit(1)
	}
	if _, err := scheduler.Register(cfg.Worker.SweepCron, sweep); err != nil {
		logger.Error("failed to schedule sweep", "cron", cfg.Worker.SweepCron, "error", err)
		os.Exit(1)
	}
	if next, err := util.NextCronTime(cfg.Worker.SweepCron, time.Now().UTC()); err == nil {
		logger.Info("primary role sweep scheduled", "cron", cfg.Worker.SweepCron, "next_run", next)
	}

	// Run one sweep at startup so a fresh worker does not wait for the first tick.
	client := queue.NewClient(&cfg.Redis)
	if startup, err := tasks.NewPrimaryRoleSweepTask("startup"); err == nil {
		if _, err := client.Enqueue(startup); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
			logger.Warn("failed to enqueue startup sweep", "error", err)
		}
	}
	_ = client.Close()

	if err := scheduler.Start(); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	if err := database.Close(db); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("worker stopped")
}
