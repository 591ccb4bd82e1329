// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request hardening.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-lite/internal/session"
	"github.com/olegiv/ocms-lite/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the logged-in store.User.
const ContextKeyUser ContextKey = "user"

// Redirect targets and messages of the auth guards.
const (
	LoginURL         = "/login"
	HomeURL          = "/"
	MsgLoginRequired = "Please log in to access this page."
	MsgAdminRequired = "Access denied. Administrator rights required."
)

// RequireLogin redirects to the login page when the session carries no user id.
func RequireLogin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetInt64(r.Context(), session.KeyUserID) == 0 {
				session.PutFlash(r.Context(), sm, MsgLoginRequired, session.FlashInfo)
				http.Redirect(w, r, LoginURL, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser loads the session user into the request context. A session that
// points at a deleted user is destroyed and redirected to the login page.
// Use it after RequireLogin.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					slog.ErrorContext(r.Context(), "failed to load session user", "user_id", userID, "error", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, LoginURL, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser loads the session user into context when there is one and
// never redirects. Public pages use it to show the admin link.
func OptionalLoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets only administrators through. Other users get a danger
// flash and are sent to the public home page. Use it after LoadUser.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				session.PutFlash(r.Context(), sm, MsgLoginRequired, session.FlashInfo)
				http.Redirect(w, r, LoginURL, http.StatusSeeOther)
				return
			}

			if !user.IsAdmin {
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"user_id", user.ID,
					"remote_addr", r.RemoteAddr,
				)
				session.PutFlash(r.Context(), sm, MsgAdminRequired, session.FlashDanger)
				http.Redirect(w, r, HomeURL, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}
