// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/store"
)

// HomeSlug is the slug of the page shown at "/".
const HomeSlug = "home"

// FrontendHandler serves the public site.
type FrontendHandler struct {
	renderer *render.Renderer
	pages    *service.PageService
	themes   *service.ThemeService
	media    *service.MediaService
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, pages *service.PageService, themes *service.ThemeService, media *service.MediaService) *FrontendHandler {
	return &FrontendHandler{
		renderer: renderer,
		pages:    pages,
		themes:   themes,
		media:    media,
	}
}

// site loads the theme, its assets and the navigation menu.
func (h *FrontendHandler) site(r *http.Request) (*render.PublicSite, error) {
	theme, err := h.themes.Current(r.Context())
	if err != nil {
		return nil, err
	}

	assets, err := h.themes.Assets(r.Context(), theme)
	if err != nil {
		return nil, err
	}

	menu, err := h.pages.Menu(r.Context())
	if err != nil {
		return nil, err
	}

	return &render.PublicSite{
		Theme:   theme,
		Logo:    assets.Logo,
		Favicon: assets.Favicon,
		Menu:    menu,
	}, nil
}

func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	site, err := h.site(r)
	if err != nil {
		logAndInternalError(w, r, "failed to load site", "error", err)
		return
	}

	renderOrError(w, r, h.renderer, status, name, render.TemplateData{
		Title: title,
		Data:  data,
		Site:  site,
	})
}

// Home handles GET /. It shows the published "home" page when there is one.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.PublishedBySlug(r.Context(), HomeSlug)
	switch {
	case err == nil:
		h.render(w, r, http.StatusOK, tmplIndex, "", &page)
	case errors.Is(err, service.ErrNotFound):
		h.render(w, r, http.StatusOK, tmplIndex, "", (*store.Page)(nil))
	default:
		logAndInternalError(w, r, "failed to load home page", "error", err)
	}
}

// Page handles GET /page/{slug}.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.pages.PublishedBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, r, "failed to load page", "slug", slug, "error", err)
		return
	}

	h.render(w, r, http.StatusOK, tmplPage, page.Title, page)
}

// NotFound renders the themed 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, tmplNotFound, "Page not found", nil)
}

// Favicon handles GET /favicon.ico. It serves the theme favicon file, or 404
// when none is set or the file is gone.
func (h *FrontendHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	theme, err := h.themes.Current(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to load theme", "error", err)
		return
	}

	assets, err := h.themes.Assets(r.Context(), theme)
	if err != nil {
		logAndInternalError(w, r, "failed to load favicon", "error", err)
		return
	}
	if assets.Favicon == nil {
		http.NotFound(w, r)
		return
	}

	path, err := h.media.FilePath(*assets.Favicon)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid favicon path", "media_id", assets.Favicon.ID, "error", err)
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", assets.Favicon.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, assets.Favicon.Filename, info.ModTime(), f)
}
