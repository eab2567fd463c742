// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
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

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"

	"github.com/yordsite/yord/internal/config"
	"github.com/yordsite/yord/internal/handler"
	"github.com/yordsite/yord/internal/metrics"
	"github.com/yordsite/yord/internal/middleware"
	"github.com/yordsite/yord/internal/render"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/session"
	"github.com/yordsite/yord/internal/store"
	"github.com/yordsite/yord/internal/version"
	"github.com/yordsite/yord/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	initDB := flag.Bool("init-db", false, "Drop and recreate all tables, then exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "YORD - band mailing list site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_DB_PATH            SQLite database path (default: ./data/yord.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_SERVER_HOST        Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_LOG_LEVEL          debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_ADMIN_EMAIL        Administrator login created on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_ADMIN_PASSWORD     Administrator password created on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_MEMBERS_PER_PAGE   Members per page in the admin list (default: 10)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_SESSION_STORE      sqlite|redis (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YORD_REDIS_URL          Redis URL, required for the redis session store\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo, *initDB); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info, initDB bool) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	ctx := context.Background()

	if initDB {
		slog.Info("recreating database schema")
		if err := store.Reset(db); err != nil {
			return fmt.Errorf("resetting database: %w", err)
		}
		if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("database initialized")
		return nil
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	slog.Info("database ready")

	// Session manager
	var sessionManager *scs.SessionManager
	if cfg.UseRedisSessions() {
		client, err := session.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis at %s: %w", session.SanitizeRedisURL(cfg.RedisURL), err)
		}
		defer func() { _ = client.Close() }()
		sessionManager = session.NewWithStore(session.NewRedisStore(client, session.DefaultRedisPrefix), cfg.IsDevelopment())
		slog.Info("using redis session store", "url", session.SanitizeRedisURL(cfg.RedisURL))
	} else {
		sessionManager = session.New(db, cfg.IsDevelopment())
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	router := handler.NewRouter(handler.Deps{
		DB:              db,
		SessionManager:  sessionManager,
		Renderer:        renderer,
		Members:         service.NewMemberService(db, cfg.MembersPerPage),
		Users:           service.NewUserService(db),
		LoginProtection: middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
		FormLimiter:     middleware.NewPublicRateLimiter(cfg.FormRateLimit, cfg.FormRateBurst),
		Metrics:         metrics.New(),
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()),
		IsDevelopment:   cfg.IsDevelopment(),
		StaticFS:        web.Static(),
		Version:         versionInfo.Version,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
