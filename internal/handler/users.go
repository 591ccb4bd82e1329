// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/middleware"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
)

// UsersHandler handles user management routes.
type UsersHandler struct {
	renderer *render.Renderer
	users    *service.UserService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(renderer *render.Renderer, users *service.UserService) *UsersHandler {
	return &UsersHandler{
		renderer: renderer,
		users:    users,
	}
}

// List handles GET /admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list users", "error", err)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplUsersList, render.TemplateData{
		Title: "Users",
		Data:  users,
	})
}

// NewForm handles GET /admin/users/new.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderOrError(w, r, h.renderer, http.StatusOK, tmplUsersForm, render.TemplateData{
		Title: "New user",
	})
}

// Create handles POST /admin/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	f := form.UserFromRequest(r)
	if _, err := h.users.Create(r.Context(), f); err != nil {
		errs, ok := service.IsValidation(err)
		if !ok {
			var dup *service.DuplicateUserError
			if !errors.As(err, &dup) {
				unexpectedError(w, r, h.renderer, redirectAdminUsers, "failed to create user", err)
				return
			}
			errs = form.Errors{}
			switch dup.Field {
			case "email":
				errs.Add("email", "This email address is already in use")
			default:
				errs.Add("username", "This username is already taken")
			}
		}

		renderOrError(w, r, h.renderer, http.StatusUnprocessableEntity, tmplUsersForm, render.TemplateData{
			Title:  "New user",
			Values: f.Values(),
			Errors: errs,
		})
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers, msgUserCreated)
}

// Delete handles POST /admin/users/{id}/delete and DELETE /admin/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminUsers, msgUserNotFound)
		return
	}

	err := h.users.Delete(r.Context(), middleware.GetUserID(r), id)
	switch {
	case err == nil:
		flashSuccess(w, r, h.renderer, redirectAdminUsers, msgUserDeleted)
	case errors.Is(err, service.ErrSelfDeletion):
		flashError(w, r, h.renderer, redirectAdminUsers, msgSelfDeletion)
	case errors.Is(err, service.ErrNotFound):
		flashError(w, r, h.renderer, redirectAdminUsers, msgUserNotFound)
	default:
		unexpectedError(w, r, h.renderer, redirectAdminUsers, "failed to delete user", err, "user_id", id)
	}
}
