// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/middleware"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/store"
)

// PagesHandler handles page management routes.
type PagesHandler struct {
	renderer *render.Renderer
	pages    *service.PageService
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(renderer *render.Renderer, pages *service.PageService) *PagesHandler {
	return &PagesHandler{
		renderer: renderer,
		pages:    pages,
	}
}

type pageFormData struct {
	Action string
	Page   *store.Page
}

// List handles GET /admin/pages.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.List(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list pages", "error", err)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplPagesList, render.TemplateData{
		Title: "Pages",
		Data:  pages,
	})
}

// NewForm handles GET /admin/pages/new.
func (h *PagesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderOrError(w, r, h.renderer, http.StatusOK, tmplPagesForm, render.TemplateData{
		Title:  "New page",
		Data:   pageFormData{Action: redirectAdminPages},
		Values: map[string]string{"menu_order": "0"},
	})
}

// Create handles POST /admin/pages.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPages) {
		return
	}

	f := form.PageFromRequest(r)
	page, err := h.pages.Create(r.Context(), f, middleware.GetUserID(r))
	if err != nil {
		h.writeError(w, r, err, f, "New page", pageFormData{Action: redirectAdminPages})
		return
	}

	flashSuccess(w, r, h.renderer, pageURL(page.ID), msgPageCreated)
}

// EditForm handles GET /admin/pages/{id}.
func (h *PagesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminPages, msgPageNotFound)
		return
	}

	page, err := h.pages.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminPages, msgPageNotFound)
			return
		}
		unexpectedError(w, r, h.renderer, redirectAdminPages, "failed to get page", err, "page_id", id)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplPagesForm, render.TemplateData{
		Title:  "Edit page",
		Data:   pageFormData{Action: pageURL(page.ID), Page: &page},
		Values: pageValues(page),
	})
}

// Update handles POST and PUT /admin/pages/{id}.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminPages, msgPageNotFound)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pageURL(id)) {
		return
	}

	f := form.PageFromRequest(r)
	page, err := h.pages.Update(r.Context(), id, f)
	if err != nil {
		data := pageFormData{Action: pageURL(id)}
		if existing, getErr := h.pages.Get(r.Context(), id); getErr == nil {
			data.Page = &existing
		}
		h.writeError(w, r, err, f, "Edit page", data)
		return
	}

	flashSuccess(w, r, h.renderer, pageURL(page.ID), msgPageUpdated)
}

// Delete handles POST /admin/pages/{id}/delete and DELETE /admin/pages/{id}.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminPages, msgPageNotFound)
		return
	}

	if err := h.pages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminPages, msgPageNotFound)
			return
		}
		unexpectedError(w, r, h.renderer, redirectAdminPages, "failed to delete page", err, "page_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminPages, msgPageDeleted)
}

// writeError maps a create/update failure to a response.
func (h *PagesHandler) writeError(w http.ResponseWriter, r *http.Request, err error, f form.PageForm, title string, data pageFormData) {
	var errs form.Errors
	switch {
	case errors.Is(err, service.ErrDuplicateSlug):
		errs = form.Errors{}
		errs.Add("slug", "A page with this slug already exists")
	case errors.Is(err, service.ErrNotFound):
		flashError(w, r, h.renderer, redirectAdminPages, msgPageNotFound)
		return
	default:
		var ok bool
		if errs, ok = service.IsValidation(err); !ok {
			unexpectedError(w, r, h.renderer, redirectAdminPages, "failed to save page", err)
			return
		}
	}

	renderOrError(w, r, h.renderer, http.StatusUnprocessableEntity, tmplPagesForm, render.TemplateData{
		Title:  title,
		Data:   data,
		Values: f.Values(),
		Errors: errs,
	})
}

func pageURL(id int64) string {
	return fmt.Sprintf("%s/%d", redirectAdminPages, id)
}

func pageValues(p store.Page) map[string]string {
	return map[string]string{
		"title":        p.Title,
		"slug":         p.Slug,
		"content":      p.Content,
		"menu_order":   strconv.FormatInt(p.MenuOrder, 10),
		"is_published": strconv.FormatBool(p.IsPublished),
		"show_in_menu": strconv.FormatBool(p.ShowInMenu),
	}
}
