// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	uploadDir string
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, uploadDir, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		uploadDir: uploadDir,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health. The database is required; a missing upload
// directory only degrades the status since it is created on first upload.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	uploadsCheck := h.checkUploads()

	overall := statusHealthy
	code := http.StatusOK
	switch {
	case dbCheck.Status != statusHealthy:
		overall = statusUnhealthy
		code = http.StatusServiceUnavailable
	case uploadsCheck.Status != statusHealthy:
		overall = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks: map[string]Check{
			"database": dbCheck,
			"uploads":  uploadsCheck,
		},
	})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: "database unreachable",
		}
	}
	return Check{
		Status:  statusHealthy,
		Latency: latency.Round(time.Microsecond).String(),
	}
}

// checkUploads verifies that the upload directory exists.
func (h *HealthHandler) checkUploads() Check {
	info, err := os.Stat(h.uploadDir)
	switch {
	case err != nil:
		return Check{Status: statusDegraded, Message: "upload directory not found"}
	case !info.IsDir():
		return Check{Status: statusUnhealthy, Message: "upload path is not a directory"}
	}
	return Check{Status: statusHealthy}
}
