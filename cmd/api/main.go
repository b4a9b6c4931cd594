// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Stargazer HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and .env).
//  3. Open the entity store (PostgreSQL or embedded SQLite) and migrate it.
//  4. Connect to Redis when configured.
//  5. Wire services, handlers and background jobs.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/stargazer/internal/api"
	"github.com/taibuivan/stargazer/internal/library/progress"
	"github.com/taibuivan/stargazer/internal/platform/config"
	"github.com/taibuivan/stargazer/internal/platform/constants"
	"github.com/taibuivan/stargazer/internal/platform/migration"
	pgstore "github.com/taibuivan/stargazer/internal/platform/postgres"
	redisstore "github.com/taibuivan/stargazer/internal/platform/redis"
	"github.com/taibuivan/stargazer/internal/platform/scheduler"
	"github.com/taibuivan/stargazer/internal/platform/sec"
	"github.com/taibuivan/stargazer/internal/platform/sqlite"
	"github.com/taibuivan/stargazer/internal/social/rating"
)

// positionPruneSchedule sweeps in-memory reading positions when Redis is absent.
const positionPruneSchedule = "@every 1h"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for background routines; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Entity Store ───────────────────────────────────────────────────
	var (
		stores    api.Stores
		storeName string
		pingStore func(ctx context.Context) error
	)

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		must(log, os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755), "create sqlite directory")

		db, err := sqlite.Open(startupCtx, cfg.SQLitePath, log)
		must(log, err, "open sqlite")
		defer func() {
			log.Info("closing_sqlite_database")
			if cerr := db.Close(); cerr != nil {
				log.Error("sqlite_close_error", slog.Any("error", cerr))
			}
		}()

		must(log, migration.RunSQLite(db, log), "run migrations")
		stores, storeName = api.SQLiteStores(db), "sqlite"
		pingStore = func(ctx context.Context) error { return sqlite.Ping(ctx, db) }

	default:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")
		stores, storeName = api.PostgresStores(pool), "postgres"
		pingStore = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
	}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		ratingCache rating.AggregateCache
		devices     progress.DeviceStorage
		pingCache   func(ctx context.Context) error
	)

	memoryPositions := progress.NewMemoryStorage()
	devices = memoryPositions

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		ratingCache = rating.NewRedisCache(rdb)
		devices = progress.NewRedisStorage(rdb)
		pingCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		log.Warn("redis_disabled", slog.String("fallback", "in-memory reading positions, no rating cache"))
	}

	// ── 5. Auth ───────────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	services := api.NewServices(stores, ratingCache, devices)

	jobs := scheduler.New(log)
	must(log, jobs.Register(services.Rating.RefreshJob(cfg.RatingRefreshSchedule)), "register rating refresh")
	if cfg.RedisURL == "" {
		must(log, jobs.Register(memoryPositions.PruneJob(positionPruneSchedule)), "register position prune")
	}
	jobs.Start()

	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: storeName, Ping: pingStore},
		{Name: "redis", Ping: pingCache},
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Domains:   services.Routes(),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	jobs.Stop(stopCtx)

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process-wide JSON logger.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		log.Error("redis_close_error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
