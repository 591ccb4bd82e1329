// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CacheFor marks successful responses as publicly cacheable for ttl. Error
// responses get "no-store" so that a missing upload is not cached.
func CacheFor(ttl time.Duration) func(http.Handler) http.Handler {
	value := "public, max-age=" + strconv.FormatInt(int64(ttl/time.Second), 10)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&cacheWriter{ResponseWriter: w, value: value}, r)
		})
	}
}

// cacheWriter sets Cache-Control once the status code is known.
type cacheWriter struct {
	http.ResponseWriter
	value       string
	wroteHeader bool
}

func (cw *cacheWriter) WriteHeader(code int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		if code < http.StatusBadRequest {
			cw.Header().Set("Cache-Control", cw.value)
		} else {
			cw.Header().Set("Cache-Control", "no-store")
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *cacheWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
