// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/middleware"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/session"
)

const msgInvalidCredentials = "Invalid username or password"

// AuthHandler handles authentication routes.
type AuthHandler struct {
	auth           *service.AuthService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		auth:           service.NewAuthService(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// LoginForm renders the login page. Logged-in users go straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplLogin, render.TemplateData{
		Title: "Log in",
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	f := form.LoginFromRequest(r)
	values := map[string]string{"username": f.Username}
	if f.RememberMe {
		values["remember_me"] = "true"
	}

	if errs := f.Validate(); !errs.Valid() {
		renderOrError(w, r, h.renderer, http.StatusUnprocessableEntity, tmplLogin, render.TemplateData{
			Title:  "Log in",
			Values: values,
			Errors: errs,
		})
		return
	}

	client := describeClient(r)

	user, err := h.auth.Authenticate(r.Context(), f.Username, f.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			unexpectedError(w, r, h.renderer, redirectLogin, "login failed", err)
			return
		}
		slog.WarnContext(r.Context(), "login failed",
			"username", f.Username,
			"remote_addr", r.RemoteAddr,
			"client", client,
		)
		renderOrError(w, r, h.renderer, http.StatusUnauthorized, tmplLogin, render.TemplateData{
			Title:     "Log in",
			Flash:     msgInvalidCredentials,
			FlashType: session.FlashDanger,
			Values:    values,
		})
		return
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)
	h.sessionManager.RememberMe(r.Context(), f.RememberMe)

	slog.InfoContext(r.Context(), "user logged in",
		"user_id", user.ID,
		"username", user.Username,
		"remember_me", f.RememberMe,
		"client", client,
	)

	flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back, "+user.Username+"!")
}

// Logout destroys the session and returns to the public home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}

	if userID > 0 {
		slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	}

	flashAndRedirect(w, r, h.renderer, redirectHome, msgLoggedOut, session.FlashInfo)
}

// describeClient summarizes the User-Agent as "browser/os/device" for the auth log.
func describeClient(r *http.Request) string {
	ua := useragent.Parse(r.UserAgent())

	browser, os := ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	return browser + "/" + os + "/" + device
}
