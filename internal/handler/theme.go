// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/store"
)

// ThemeHandler handles theme customization routes.
type ThemeHandler struct {
	renderer *render.Renderer
	themes   *service.ThemeService
	media    *service.MediaService
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(renderer *render.Renderer, themes *service.ThemeService, media *service.MediaService) *ThemeHandler {
	return &ThemeHandler{
		renderer: renderer,
		themes:   themes,
		media:    media,
	}
}

type colorField struct {
	Field string
	Label string
}

var themeColors = []colorField{
	{"primary_color", "Primary color"},
	{"secondary_color", "Secondary color"},
	{"accent_color", "Accent color"},
	{"background_color", "Background color"},
	{"text_color", "Text color"},
}

type themeData struct {
	Colors  []colorField
	Logo    *store.Medium
	Favicon *store.Medium
	Media   []mediaItem
}

// Edit handles GET /admin/theme. The theme row is created on first visit.
func (h *ThemeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	theme, err := h.themes.GetOrCreate(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to load theme", "error", err)
		return
	}

	data, err := h.themeData(r, theme)
	if err != nil {
		logAndInternalError(w, r, "failed to load theme media", "error", err)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplTheme, render.TemplateData{
		Title:  "Theme",
		Data:   data,
		Values: themeValues(theme),
	})
}

// Update handles POST /admin/theme.
func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminTheme) {
		return
	}

	f := form.ThemeFromRequest(r)
	if _, err := h.themes.Update(r.Context(), f); err != nil {
		errs, ok := service.IsValidation(err)
		if !ok {
			unexpectedError(w, r, h.renderer, redirectAdminTheme, "failed to update theme", err)
			return
		}

		theme, err := h.themes.GetOrCreate(r.Context())
		if err != nil {
			logAndInternalError(w, r, "failed to load theme", "error", err)
			return
		}
		data, err := h.themeData(r, theme)
		if err != nil {
			logAndInternalError(w, r, "failed to load theme media", "error", err)
			return
		}

		renderOrError(w, r, h.renderer, http.StatusUnprocessableEntity, tmplTheme, render.TemplateData{
			Title:  "Theme",
			Data:   data,
			Values: f.Values(),
			Errors: errs,
		})
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminTheme, msgThemeUpdated)
}

// SetLogo handles POST /admin/theme/logo/{mediaID}.
func (h *ThemeHandler) SetLogo(w http.ResponseWriter, r *http.Request) {
	h.setAsset(w, r, "Logo updated", h.themes.SetLogo)
}

// SetFavicon handles POST /admin/theme/favicon/{mediaID}.
func (h *ThemeHandler) SetFavicon(w http.ResponseWriter, r *http.Request) {
	h.setAsset(w, r, "Favicon updated", h.themes.SetFavicon)
}

// ClearLogo handles POST /admin/theme/logo/clear.
func (h *ThemeHandler) ClearLogo(w http.ResponseWriter, r *http.Request) {
	if _, err := h.themes.ClearLogo(r.Context()); err != nil {
		unexpectedError(w, r, h.renderer, redirectAdminTheme, "failed to clear logo", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminTheme, "Logo removed")
}

// ClearFavicon handles POST /admin/theme/favicon/clear.
func (h *ThemeHandler) ClearFavicon(w http.ResponseWriter, r *http.Request) {
	if _, err := h.themes.ClearFavicon(r.Context()); err != nil {
		unexpectedError(w, r, h.renderer, redirectAdminTheme, "failed to clear favicon", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminTheme, "Favicon removed")
}

func (h *ThemeHandler) setAsset(w http.ResponseWriter, r *http.Request, success string, set func(ctx context.Context, mediaID int64) (store.Theme, error)) {
	mediaID, ok := parseIDParam(r, "mediaID")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminTheme, msgMediaNotFound)
		return
	}

	if _, err := set(r.Context(), mediaID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminTheme, msgMediaNotFound)
			return
		}
		unexpectedError(w, r, h.renderer, redirectAdminTheme, "failed to set theme asset", err, "media_id", mediaID)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminTheme, success)
}

func (h *ThemeHandler) themeData(r *http.Request, theme store.Theme) (themeData, error) {
	assets, err := h.themes.Assets(r.Context(), theme)
	if err != nil {
		return themeData{}, err
	}

	media, err := h.media.List(r.Context())
	if err != nil {
		return themeData{}, err
	}

	return themeData{
		Colors:  themeColors,
		Logo:    assets.Logo,
		Favicon: assets.Favicon,
		Media:   newMediaItems(media),
	}, nil
}

func themeValues(t store.Theme) map[string]string {
	return map[string]string{
		"site_name":        t.SiteName,
		"primary_color":    t.PrimaryColor,
		"secondary_color":  t.SecondaryColor,
		"accent_color":     t.AccentColor,
		"background_color": t.BackgroundColor,
		"text_color":       t.TextColor,
		"footer_text":      t.FooterText,
	}
}
