// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-lite/internal/config"
	"github.com/olegiv/ocms-lite/internal/logging"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/server"
	"github.com/olegiv/ocms-lite/internal/session"
	"github.com/olegiv/ocms-lite/internal/store"
	"github.com/olegiv/ocms-lite/internal/version"
	"github.com/olegiv/ocms-lite/web"
)

// Build information injected via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oCMS lite - a small content management system\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SECRET_KEY          Secret key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DATABASE_URL        Database URL (default: sqlite://./data/cms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_UPLOAD_DIR          Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_MAX_UPLOAD_SIZE     Maximum upload size in bytes (default: 16777216)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ALLOWED_EXTENSIONS  Upload extensions (default: png,jpg,jpeg,gif,webp,svg)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SERVER_HOST         Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SERVER_PORT         Listen port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ENV                 development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_LOG_LEVEL           debug|info|warn|error (default: info)\n")
	}

	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("ocms %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}

	slog.Info("initializing database", "path", dbPath)
	db, err := store.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	router := server.NewRouter(server.Deps{
		Config:         cfg,
		DB:             db,
		SessionManager: sessionManager,
		Renderer:       renderer,
		Static:         staticFS,
		Version:        info.Version,
	})

	srv := server.NewHTTPServer(cfg, router)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
