// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command ocms-initdb drops the schema, recreates it and loads the default
// administrator, theme and sample pages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-lite/internal/config"
	"github.com/olegiv/ocms-lite/internal/logging"
	"github.com/olegiv/ocms-lite/internal/seed"
	"github.com/olegiv/ocms-lite/internal/store"
)

func main() {
	databaseURL := flag.String("database", "", "Database URL (overrides OCMS_DATABASE_URL)")
	flag.Parse()

	if err := run(*databaseURL); err != nil {
		slog.Error("initdb failed", "error", err)
		os.Exit(1)
	}
}

func run(databaseURL string) error {
	_ = godotenv.Load()

	if databaseURL == "" {
		databaseURL = os.Getenv("OCMS_DATABASE_URL")
	}
	if databaseURL == "" {
		databaseURL = "sqlite://./data/cms.db"
	}

	slog.SetDefault(logging.New(os.Stdout, logging.ParseLevel(os.Getenv("OCMS_LOG_LEVEL"))))

	path, err := config.ParseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}

	db, err := store.NewDB(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()

	fmt.Println("Dropping and recreating tables...")
	if err := store.Recreate(ctx, db); err != nil {
		return err
	}

	fmt.Println("Creating admin user, default theme and sample pages...")
	if _, err := seed.Run(ctx, db); err != nil {
		return err
	}

	line := strings.Repeat("=", 50)
	fmt.Println()
	fmt.Println(line)
	fmt.Println("Database initialized successfully!")
	fmt.Println(line)
	fmt.Println("\nDefault credentials:")
	fmt.Printf("  Username: %s\n", seed.DefaultAdminUsername)
	fmt.Printf("  Password: %s\n", seed.DefaultAdminPassword)
	fmt.Println("\nIMPORTANT: Change the admin password after first login!")
	fmt.Println(line)

	return nil
}
