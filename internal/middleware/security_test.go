// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig) *httptest.ResponseRecorder {
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS string
	}{
		{"production enables HSTS", false, "max-age=31536000; includeSubDomains"},
		{"development disables HSTS", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithHeaders(DefaultSecurityHeadersConfig(tt.isDev))

			if got := rec.Header().Get("Strict-Transport-Security"); got != tt.wantHSTS {
				t.Errorf("HSTS = %q, want %q", got, tt.wantHSTS)
			}
			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.HasPrefix(csp, "default-src 'self'") {
				t.Errorf("CSP = %q, want default-src first", csp)
			}
			if !strings.Contains(csp, "object-src 'none'") {
				t.Errorf("CSP = %q, want object-src 'none'", csp)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
				t.Errorf("X-Frame-Options = %q", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q", got)
			}
			if got := rec.Header().Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
				t.Errorf("Referrer-Policy = %q", got)
			}
			if rec.Header().Get("Permissions-Policy") == "" {
				t.Error("missing Permissions-Policy")
			}
		})
	}
}

func TestSecurityHeaders_EmptyConfig(t *testing.T) {
	rec := serveWithHeaders(SecurityHeadersConfig{})

	for _, h := range []string{"Content-Security-Policy", "Strict-Transport-Security", "X-Frame-Options", "Referrer-Policy"} {
		if v := rec.Header().Get(h); v != "" {
			t.Errorf("%s = %q, want unset", h, v)
		}
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff must always be set")
	}
}
