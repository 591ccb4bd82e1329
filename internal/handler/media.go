// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/middleware"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/session"
	"github.com/olegiv/ocms-lite/internal/store"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// MediaHandler handles media library routes.
type MediaHandler struct {
	renderer      *render.Renderer
	media         *service.MediaService
	maxUploadSize int64
}

// NewMediaHandler creates a new MediaHandler. Request bodies larger than
// maxUploadSize are rejected.
func NewMediaHandler(renderer *render.Renderer, media *service.MediaService, maxUploadSize int64) *MediaHandler {
	return &MediaHandler{
		renderer:      renderer,
		media:         media,
		maxUploadSize: maxUploadSize,
	}
}

type mediaItem struct {
	Medium       store.Medium
	URL          string
	ThumbnailURL string
}

func newMediaItems(media []store.Medium) []mediaItem {
	items := make([]mediaItem, 0, len(media))
	for _, m := range media {
		items = append(items, mediaItem{
			Medium:       m,
			URL:          service.MediaURL(m),
			ThumbnailURL: service.ThumbnailURL(m),
		})
	}
	return items
}

type uploadData struct {
	Allowed string
	MaxSize int64
}

// List handles GET /admin/media.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	media, err := h.media.List(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list media", "error", err)
		return
	}

	renderOrError(w, r, h.renderer, http.StatusOK, tmplMediaList, render.TemplateData{
		Title: "Media",
		Data:  newMediaItems(media),
	})
}

// UploadForm handles GET /admin/media/upload.
func (h *MediaHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	renderOrError(w, r, h.renderer, http.StatusOK, tmplMediaUpload, render.TemplateData{
		Title: "Upload a file",
		Data:  h.uploadData(),
	})
}

// Upload handles POST /admin/media/upload.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		message := "The upload could not be read"
		if errors.As(err, &tooLarge) {
			message = fmt.Sprintf("File is too large (maximum %s)", formatBytes(h.maxUploadSize))
		} else {
			slog.WarnContext(r.Context(), "invalid multipart upload", "error", err)
		}
		h.renderUploadErrors(w, r, form.MediaUploadForm{}, form.NewValidationError("file", message).Errors)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var (
		reader      io.Reader
		filename    string
		contentType string
	)
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		reader = file
		filename = header.Filename
		contentType = header.Header.Get("Content-Type")
	case errors.Is(err, http.ErrMissingFile):
	default:
		unexpectedError(w, r, h.renderer, redirectAdminMedia, "failed to read uploaded file", err)
		return
	}

	f := form.MediaFromRequest(r, filename)
	m, err := h.media.Upload(r.Context(), service.UploadInput{
		Form:        f,
		Reader:      reader,
		ContentType: contentType,
	}, middleware.GetUserID(r))
	if err != nil {
		if errs, ok := service.IsValidation(err); ok {
			h.renderUploadErrors(w, r, f, errs)
			return
		}
		var storageErr *service.StorageError
		if errors.As(err, &storageErr) {
			slog.ErrorContext(r.Context(), "failed to store upload", "error", err)
			h.renderUploadErrors(w, r, f, form.NewValidationError("file", "The file could not be saved").Errors)
			return
		}
		unexpectedError(w, r, h.renderer, redirectAdminMedia, "failed to upload media", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminMedia, msgMediaUploaded+": "+m.Filename)
}

// Delete handles POST /admin/media/{id}/delete and DELETE /admin/media/{id}.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMedia, msgMediaNotFound)
		return
	}

	result, err := h.media.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminMedia, msgMediaNotFound)
			return
		}
		unexpectedError(w, r, h.renderer, redirectAdminMedia, "failed to delete media", err, "media_id", id)
		return
	}

	if result.FileWarning != nil {
		flashAndRedirect(w, r, h.renderer, redirectAdminMedia,
			"File record deleted, but the file could not be removed from disk", session.FlashWarning)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminMedia, msgMediaDeleted)
}

func (h *MediaHandler) uploadData() uploadData {
	return uploadData{
		Allowed: strings.Join(h.media.AllowedExtensions(), ", "),
		MaxSize: h.maxUploadSize,
	}
}

func (h *MediaHandler) renderUploadErrors(w http.ResponseWriter, r *http.Request, f form.MediaUploadForm, errs form.Errors) {
	renderOrError(w, r, h.renderer, http.StatusUnprocessableEntity, tmplMediaUpload, render.TemplateData{
		Title: "Upload a file",
		Data:  h.uploadData(),
		Values: map[string]string{
			"alt_text":  f.AltText,
			"file_type": f.FileType,
		},
		Errors: errs,
	})
}

// formatBytes renders n as a whole number of MiB when it divides evenly.
func formatBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
