// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the translated tags HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Load metamodel definitions.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/translatedtags/internal/api"
	"github.com/taibuivan/translatedtags/internal/attribute/options"
	"github.com/taibuivan/translatedtags/internal/attribute/translatedtags"
	"github.com/taibuivan/translatedtags/internal/metamodel"
	"github.com/taibuivan/translatedtags/internal/platform/config"
	"github.com/taibuivan/translatedtags/internal/platform/constants"
	"github.com/taibuivan/translatedtags/internal/platform/middleware"
	"github.com/taibuivan/translatedtags/internal/platform/migration"
	pgstore "github.com/taibuivan/translatedtags/internal/platform/postgres"
	redisstore "github.com/taibuivan/translatedtags/internal/platform/redis"
	"github.com/taibuivan/translatedtags/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("catalog_cache", cfg.CacheEnabled()),
		slog.Bool("admin", cfg.AdminEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.CacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Metamodels ─────────────────────────────────────────────────────
	models, err := metamodel.LoadRegistry(cfg.MetaModelsFile)
	must(log, err, "load metamodel definitions")
	log.Info("metamodels_loaded", slog.Any("names", models.Names()))

	// ── 7. Admin Token Verification ───────────────────────────────────────
	// Left as a nil interface when disabled so every request stays anonymous.
	var verifier middleware.TokenVerifier
	if cfg.AdminEnabled() {
		tokenVerifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, cfg.AuthIssuer)
		must(log, err, "initialize token verifier")
		verifier = tokenVerifier
	}

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	types, err := translatedtags.NewTypeRegistry(translatedtags.NewPostgresRepository(pool), log)
	must(log, err, "register attribute types")
	log.Info("attribute_types_registered", slog.Any("types", types.Types()))
	attributeHandler := translatedtags.NewHandler(translatedtags.NewResolver(models, types))

	var catalog options.Catalog = options.NewPostgresCatalog(pool)
	if rdb != nil {
		catalog = options.NewCachedCatalog(catalog, rdb, cfg.CatalogCacheTTL, log)
	}
	dispatcher := options.NewDispatcher()
	options.NewSubscriber(catalog, log).RegisterEvents(dispatcher)
	optionsHandler := options.NewHandler(options.NewService(dispatcher))

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Attributes: attributeHandler,
		Options:    optionsHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
