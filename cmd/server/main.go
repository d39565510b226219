package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/go-roster/internal/accounts"
	"github.com/hugh/go-roster/internal/api"
	"github.com/hugh/go-roster/internal/api/middleware"
	"github.com/hugh/go-roster/internal/database"
	"github.com/hugh/go-roster/internal/store"
	"github.com/hugh/go-roster/pkg/config"
	"github.com/hugh/go-roster/pkg/credential"
	"github.com/hugh/go-roster/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
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

	logger.Info("starting roster server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"driver", cfg.Database.Driver,
	)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("database schema migrated")
	}

	// Redis is optional; health checks and the redis rate limiter need it.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		_ = redisClient.Close()
		redisClient = nil
	}
	cancelPing()

	var limiter middleware.Limiter
	switch {
	case cfg.RateLimit.Backend == "redis" && redisClient != nil:
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window())
	default:
		if cfg.RateLimit.Backend == "redis" {
			logger.Warn("redis unavailable, falling back to in-memory rate limiting")
		}
		mem := middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window())
		defer mem.Stop()
		limiter = mem
	}

	service := accounts.NewService(
		store.New(db),
		credential.NewBcryptHasher(cfg.Security.BcryptCost),
		logger,
	)

	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Accounts:       service,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	if err := database.Close(db); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("server stopped")
}
