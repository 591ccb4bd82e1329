// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

var configVars = []string{
	"OCMS_SECRET_KEY",
	"OCMS_DATABASE_URL",
	"OCMS_UPLOAD_DIR",
	"OCMS_MAX_UPLOAD_SIZE",
	"OCMS_ALLOWED_EXTENSIONS",
	"OCMS_SERVER_HOST",
	"OCMS_SERVER_PORT",
	"OCMS_ENV",
	"OCMS_LOG_LEVEL",
}

// clearConfigEnv unsets every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configVars {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OCMS_SECRET_KEY", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DatabaseURL != "sqlite://./data/cms.db" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "sqlite://./data/cms.db")
	}
	if cfg.UploadDir != "./uploads" {
		t.Errorf("UploadDir = %q, want %q", cfg.UploadDir, "./uploads")
	}
	if cfg.MaxUploadSize != 16*1024*1024 {
		t.Errorf("MaxUploadSize = %d, want %d", cfg.MaxUploadSize, 16*1024*1024)
	}
	wantExt := []string{"png", "jpg", "jpeg", "gif", "webp", "svg"}
	if !reflect.DeepEqual(cfg.AllowedExtensions, wantExt) {
		t.Errorf("AllowedExtensions = %v, want %v", cfg.AllowedExtensions, wantExt)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OCMS_SECRET_KEY", testSecret)
	t.Setenv("OCMS_DATABASE_URL", "sqlite:///var/lib/cms/site.db")
	t.Setenv("OCMS_UPLOAD_DIR", "/srv/uploads")
	t.Setenv("OCMS_MAX_UPLOAD_SIZE", "1024")
	t.Setenv("OCMS_ALLOWED_EXTENSIONS", " PNG, .jpg ,png")
	t.Setenv("OCMS_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	path, err := cfg.DBPath()
	if err != nil {
		t.Fatalf("DBPath() error: %v", err)
	}
	if path != "/var/lib/cms/site.db" {
		t.Errorf("DBPath() = %q, want %q", path, "/var/lib/cms/site.db")
	}
	if cfg.UploadDir != "/srv/uploads" {
		t.Errorf("UploadDir = %q, want %q", cfg.UploadDir, "/srv/uploads")
	}
	if cfg.MaxUploadSize != 1024 {
		t.Errorf("MaxUploadSize = %d, want 1024", cfg.MaxUploadSize)
	}
	if !reflect.DeepEqual(cfg.AllowedExtensions, []string{"png", "jpg"}) {
		t.Errorf("AllowedExtensions = %v, want [png jpg]", cfg.AllowedExtensions)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestLoad_SecretValidation(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{"missing", "", "OCMS_SECRET_KEY"},
		{"too short", "short", "at least 32 bytes"},
		{"known weak", "change-me-to-32-byte-secret-key!", "known default"},
		{"valid", testSecret, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			if tt.secret != "" {
				t.Setenv("OCMS_SECRET_KEY", tt.secret)
			}

			_, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidMaxUploadSize(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OCMS_SECRET_KEY", testSecret)
	t.Setenv("OCMS_MAX_UPLOAD_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for zero upload size")
	}
}

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"sqlite://./data/cms.db", "./data/cms.db", false},
		{"sqlite:///abs/cms.db", "/abs/cms.db", false},
		{"sqlite3://cms.db", "cms.db", false},
		{"file:cms.db?cache=shared", "cms.db", false},
		{"./plain.db", "./plain.db", false},
		{"postgres://user@host/db", "", true},
		{"mysql://root@localhost/cms", "", true},
		{"sqlite://", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDatabaseURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDatabaseURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDatabaseURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsAllowedExtension(t *testing.T) {
	cfg := Config{AllowedExtensions: []string{"png", "jpg", "svg"}}

	tests := []struct {
		ext  string
		want bool
	}{
		{"png", true},
		{".PNG", true},
		{"Jpg", true},
		{"exe", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := cfg.IsAllowedExtension(tt.ext); got != tt.want {
			t.Errorf("IsAllowedExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcdefABCDEF12345678901234567890", true},
		{"abcdef-ghijk-12345-lmnop-qrstuvw", true},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEF", false},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
