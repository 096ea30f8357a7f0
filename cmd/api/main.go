package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"catalogapi/internal/book"
	"catalogapi/internal/config"
	"catalogapi/internal/httpx"
	"catalogapi/internal/platform/aistudio"
	"catalogapi/internal/platform/cache"
	"catalogapi/internal/recent"
	"catalogapi/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	probes := []probe{{name: "db", check: dbPool.Ping}}

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// requests degrade per component until Redis comes back
			logger.Warn("redis not reachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		probes = append(probes, probe{name: "redis", check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	var backend cache.Backend
	switch cfg.CacheBackend {
	case config.BackendMemory:
		mem, err := cache.NewMemoryBackend(cfg.CacheMaxEntries)
		if err != nil {
			return fmt.Errorf("memory cache: %w", err)
		}
		backend = mem
	default:
		backend = cache.NewRedisBackend(redisClient)
	}

	var listStore recent.ListStore
	switch cfg.RecentBackend {
	case config.BackendMemory:
		mem := recent.NewMemoryStore()
		go mem.Run(ctx, time.Hour)
		listStore = mem
	default:
		listStore = recent.NewRedisStore(redisClient)
	}

	bookRepository := book.NewPostgresRepo(dbPool, cfg.DBQueryTimeout)
	tracker := recent.New(listStore, logger.Named("recent"),
		recent.WithMaxItems(cfg.RecentMaxItems),
		recent.WithTTL(cfg.RecentTTL),
	)
	bookService := book.NewService(bookRepository, cache.New(backend, cfg.CacheTTLs, logger.Named("cache")), tracker, logger.Named("book"))
	bookHandler := book.NewHTTPHandler(bookService, logger.Named("http"))

	jobs := newBackground(logger)
	// runs before the deferred pool and Redis closes
	defer func() {
		stop()
		jobs.Wait()
	}()

	if cfg.SeedOnStart {
		seeder := seed.NewService(
			aistudio.NewClient(cfg.AIStudioAPIURL, cfg.AIStudioAPIKey, 1, 3),
			bookRepository,
			seed.Config{Enabled: cfg.AIStudioAPIKey != ""},
			logger.Named("seed"),
		)
		jobs.Go(ctx, "seeding", func(ctx context.Context) error {
			_, err := seeder.Run(ctx)
			return err
		})
	}

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	router := newRouter(bookHandler, probes, logger)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withMiddleware(router, cfg, limiter, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	bookHandler.Wait()
	return nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openDB(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	logger.Info("database connection OK")
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
