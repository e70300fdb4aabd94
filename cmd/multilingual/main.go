// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/config"
	"github.com/olegiv/ocms-multilingual/internal/handler"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/locale"
	"github.com/olegiv/ocms-multilingual/internal/logging"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/scheduler"
	"github.com/olegiv/ocms-multilingual/internal/service"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/topic"
	"github.com/olegiv/ocms-multilingual/internal/users"
	"github.com/olegiv/ocms-multilingual/internal/version"
	"github.com/olegiv/ocms-multilingual/modules/multilingual"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "multilingual - multilingual forum server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_DB_PATH                 SQLite database path (default: ./data/multilingual.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_SERVER_PORT             Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_ENV                     Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_REDIS_URL               Redis URL for shared bundle caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_LOCALES_FILE            TOML file with extra locale definitions (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_CONTENT_LANGUAGES       Initial content languages (default: en,zh_CN)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MULTILINGUAL_EVENT_RETENTION_DAYS    Days to keep event log entries (default: 30)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("multilingual %s\n", info)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	if !versionInfo.IsRelease() {
		slog.Info("running development build", "commit", versionInfo.GitCommit)
	}

	// Locales are fixed for the lifetime of the process.
	if err := locale.Setup(func(r *locale.Registry) error {
		defs := locale.Builtin()
		if cfg.LocalesFile != "" {
			extra, err := locale.LoadDefinitions(cfg.LocalesFile)
			if err != nil {
				return err
			}
			defs = append(defs, extra...)
		}
		return locale.RegisterAll(r, defs)
	}); err != nil {
		return fmt.Errorf("registering locales: %w", err)
	}
	catalog := locale.Default()
	slog.Info("locales registered", "count", len(catalog.List()))

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	bundleCache := cache.NewCache(cache.CacheConfig{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = bundleCache.Close() }()

	hooks := module.NewHookRegistry(logger)
	events := service.NewEventService(db)
	userFields := users.NewFieldRegistry()

	registry := module.NewRegistry(logger)
	ml := multilingual.New()
	if err := registry.Register(ml); err != nil {
		return fmt.Errorf("registering module: %w", err)
	}
	if err := registry.InitAll(&module.Context{
		DB:         db,
		Store:      store.New(db),
		Logger:     logger,
		Config:     cfg,
		Hooks:      hooks,
		Locales:    catalog,
		Cache:      bundleCache,
		UserFields: userFields,
	}); err != nil {
		return fmt.Errorf("initializing modules: %w", err)
	}
	defer func() {
		if err := registry.ShutdownAll(); err != nil {
			slog.Error("error shutting down modules", "error", err)
		}
	}()

	sched := scheduler.New(logger)
	if err := sched.Add("event_retention", cfg.EventCleanupSchedule,
		scheduler.EventRetentionJob(events, cfg.EventRetention(), logger)); err != nil {
		return fmt.Errorf("scheduling event retention: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	adminHandler := handler.NewAdminHandler(registry, hooks, events)
	adminHandler.SetJobs(sched)
	bundleLimiter := middleware.NewRateLimiter(cfg.BundleRateLimit, cfg.BundleRateBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	health := handler.NewHealthHandler(db, versionInfo)
	health.SetCache(bundleCache)
	r.Method(http.MethodGet, "/health", health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor(db))
		r.Use(middleware.DetectLanguage(ml.LanguageOptions()))

		handler.NewTopicsHandler(topic.NewService(db, hooks, logger)).Routes(r)
		handler.NewUsersHandler(db, userFields, hooks).Routes(r)
		handler.NewTagsHandler(db, hooks).Routes(r)
		handler.NewSiteHandler(catalog, hooks, versionInfo).Routes(r)
		handler.NewLocalesHandler(hooks).Routes(r, bundleLimiter.Middleware())
		registry.RouteAll(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			adminHandler.Routes(r)
			registry.AdminRouteAll(r)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
