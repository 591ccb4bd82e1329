// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool

	// ContentSecurityPolicy is the CSP header value. Empty disables it.
	ContentSecurityPolicy string

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds. 0 disables HSTS.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool

	// FrameOptions is "DENY", "SAMEORIGIN" or empty.
	FrameOptions string

	ReferrerPolicy    string
	PermissionsPolicy string
}

// cspDirectives are emitted in this order.
var cspDirectives = []struct{ name, value string }{
	{"default-src", "'self'"},
	{"script-src", "'self'"},
	// Theme colors are injected as an inline <style> block.
	{"style-src", "'self' 'unsafe-inline'"},
	{"img-src", "'self' data:"},
	{"font-src", "'self' data:"},
	{"object-src", "'none'"},
	{"base-uri", "'self'"},
	{"form-action", "'self'"},
	{"frame-ancestors", "'self'"},
}

// DefaultSecurityHeadersConfig returns the headers used by the CMS.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	parts := make([]string, 0, len(cspDirectives))
	for _, d := range cspDirectives {
		parts = append(parts, d.name+" "+d.value)
	}

	return SecurityHeadersConfig{
		IsDevelopment:         isDev,
		ContentSecurityPolicy: strings.Join(parts, "; "),
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubDomains: !isDev,
		FrameOptions:          "SAMEORIGIN",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), geolocation=(), microphone=(), payment=(), usb=(), browsing-topics=()",
	}
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	var hsts string
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
