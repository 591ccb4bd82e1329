// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"dev-secret-key-change-in-production",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SecretKey         string   `env:"OCMS_SECRET_KEY,required"`
	DatabaseURL       string   `env:"OCMS_DATABASE_URL" envDefault:"sqlite://./data/cms.db"`
	UploadDir         string   `env:"OCMS_UPLOAD_DIR" envDefault:"./uploads"`
	MaxUploadSize     int64    `env:"OCMS_MAX_UPLOAD_SIZE" envDefault:"16777216"` // 16 MiB
	AllowedExtensions []string `env:"OCMS_ALLOWED_EXTENSIONS" envDefault:"png,jpg,jpeg,gif,webp,svg" envSeparator:","`

	ServerHost string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"OCMS_LOG_LEVEL" envDefault:"info"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// DBPath extracts the SQLite file path from DatabaseURL. Accepted forms are
// sqlite://path, sqlite3://path, file:path and a bare path.
func (c Config) DBPath() (string, error) {
	return ParseDatabaseURL(c.DatabaseURL)
}

// ParseDatabaseURL converts a database URL into a SQLite file path.
func ParseDatabaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("OCMS_DATABASE_URL is empty")
	}

	for _, prefix := range []string{"sqlite://", "sqlite3://", "file:"} {
		if strings.HasPrefix(raw, prefix) {
			path := strings.TrimPrefix(raw, prefix)
			if i := strings.IndexByte(path, '?'); i >= 0 {
				path = path[:i]
			}
			if path == "" {
				return "", fmt.Errorf("OCMS_DATABASE_URL %q has no path", raw)
			}
			return path, nil
		}
	}

	if strings.Contains(raw, "://") {
		scheme := raw[:strings.Index(raw, "://")]
		return "", fmt.Errorf("unsupported database scheme %q: only sqlite is supported", scheme)
	}

	return raw, nil
}

// IsAllowedExtension reports whether ext (with or without a leading dot)
// is in the upload allow-list. The check is case-insensitive.
func (c Config) IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

// MinSecretKeyLength is the minimum required length for the secret key.
const MinSecretKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SecretKey) < MinSecretKeyLength {
		return nil, fmt.Errorf("OCMS_SECRET_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretKeyLength, len(cfg.SecretKey))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SecretKey == weak {
			return nil, fmt.Errorf("OCMS_SECRET_KEY is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SecretKey) {
		slog.Warn("OCMS_SECRET_KEY has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if _, err := cfg.DBPath(); err != nil {
		return nil, err
	}

	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("OCMS_MAX_UPLOAD_SIZE must be positive, got %d", cfg.MaxUploadSize)
	}

	cfg.AllowedExtensions = normalizeExtensions(cfg.AllowedExtensions)
	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("OCMS_ALLOWED_EXTENSIONS must list at least one extension")
	}

	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
