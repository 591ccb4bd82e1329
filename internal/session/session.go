// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager backed by SQLite.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Lifetime is how long a remembered login stays valid.
const Lifetime = 30 * 24 * time.Hour

// New creates a session manager storing sessions in the sessions table of db.
//
// Cookies are browser-session scoped by default; call RememberMe(ctx, true)
// after login to make the cookie persist for Lifetime.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = false

	if !isDev {
		sm.Cookie.Secure = true
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// Session keys.
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
)

// Flash categories, matching the alert classes used by the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// PutFlash stores a one-shot message shown on the next rendered page.
func PutFlash(ctx context.Context, sm *scs.SessionManager, message, flashType string) {
	sm.Put(ctx, KeyFlash, message)
	sm.Put(ctx, KeyFlashType, flashType)
}

// PopFlash removes and returns the pending flash message, if any. The type
// defaults to FlashInfo.
func PopFlash(ctx context.Context, sm *scs.SessionManager) (message, flashType string) {
	message = sm.PopString(ctx, KeyFlash)
	if message == "" {
		return "", ""
	}
	flashType = sm.PopString(ctx, KeyFlashType)
	if flashType == "" {
		flashType = FlashInfo
	}
	return message, flashType
}
