// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/store"
)

// RecentPagesLimit is the number of pages listed on the dashboard.
const RecentPagesLimit = 5

// AdminHandler serves the dashboard.
type AdminHandler struct {
	renderer *render.Renderer
	pages    *service.PageService
	media    *service.MediaService
	users    *service.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, pages *service.PageService, media *service.MediaService, users *service.UserService) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		pages:    pages,
		media:    media,
		users:    users,
	}
}

type dashboardData struct {
	PageCount   int64
	MediaCount  int64
	UserCount   int64
	RecentPages []store.Page
}

// Dashboard renders the admin dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data dashboardData
	var err error

	if data.PageCount, err = h.pages.Count(ctx); err != nil {
		logAndInternalError(w, r, "failed to count pages", "error", err)
		return
	}
	if data.MediaCount, err = h.media.Count(ctx); err != nil {
		logAndInternalError(w, r, "failed to count media", "error", err)
		return
	}
	if data.UserCount, err = h.users.Count(ctx); err != nil {
		logAndInternalError(w, r, "failed to count users", "error", err)
		return
	}
	if data.RecentPages, err = h.pages.Recent(ctx, RecentPagesLimit); err != nil {
		logAndInternalError(w, r, "failed to list recent pages", "error", err)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplDashboard, render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}
