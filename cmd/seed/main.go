package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalogapi/internal/book"
	"catalogapi/internal/config"
	"catalogapi/internal/platform/aistudio"
	"catalogapi/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	client := aistudio.NewClient(cfg.AIStudioAPIURL, cfg.AIStudioAPIKey, 1, 3)
	// generation plus bulk insert can exceed the per-query timeout used by the API
	repo := book.NewPostgresRepo(pool, 5*cfg.DBQueryTimeout)
	seeder := seed.NewService(client, repo, seed.Config{Enabled: cfg.AIStudioAPIKey != ""}, logger)

	n, err := seeder.Run(ctx)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	total, err := repo.Count(ctx)
	if err != nil {
		logger.Fatal("failed to count books", zap.Error(err))
	}
	logger.Info("seed finished", zap.Int("inserted", n), zap.Int("total", total))
}
