// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for CSRF protection. The protection relies on
// Fetch metadata headers (Sec-Fetch-Site, Origin), so no token cookie is set.
type CSRFConfig struct {
	// AuthKey is the 32-byte secret key.
	AuthKey []byte

	// ErrorHandler is called when validation fails. Defaults to a plain 403.
	ErrorHandler http.Handler

	// TrustedOrigins are host:port values allowed to post cross-origin.
	TrustedOrigins []string
}

// DefaultCSRFConfig trusts the listen address in development so that forms
// posted from http://localhost:PORT and http://127.0.0.1:PORT pass.
func DefaultCSRFConfig(authKey []byte, isDev bool, port int) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey}
	if isDev {
		p := strconv.Itoa(port)
		cfg.TrustedOrigins = []string{"localhost:" + p, "127.0.0.1:" + p}
	}
	return cfg
}

// CSRF returns a middleware that rejects cross-origin state-changing requests.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	errHandler := cfg.ErrorHandler
	if errHandler == nil {
		errHandler = http.HandlerFunc(csrfErrorHandler)
	}

	opts := []csrf.Option{csrf.ErrorHandler(errHandler)}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.WarnContext(r.Context(), "CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}
