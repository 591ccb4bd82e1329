// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/imaging"
	"github.com/olegiv/ocms-lite/internal/store"
	"github.com/olegiv/ocms-lite/internal/util"
)

// UploadURLPrefix is the public path uploaded files are served from.
const UploadURLPrefix = "/uploads/"

const (
	sniffLen          = 512
	maxNameAttempts   = 5
	defaultMimeType   = "application/octet-stream"
	uploadDirFileMode = 0o755
)

// UploadInput is one file upload: the validated text fields plus the file body.
type UploadInput struct {
	Form        form.MediaUploadForm
	Reader      io.Reader
	ContentType string // client-declared, used only as a last resort
}

// DeleteResult reports a media deletion. FileWarning is set when the row was
// deleted but removing the file from disk failed.
type DeleteResult struct {
	Medium      store.Medium
	FileWarning error
}

// MediaService stores uploaded files on disk and tracks them in the media table.
type MediaService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
	allowed   []string
	now       Clock
}

// NewMediaService creates a MediaService writing to uploadDir and accepting
// the given lowercase extensions.
func NewMediaService(db *sql.DB, uploadDir string, allowedExtensions []string) *MediaService {
	return &MediaService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
		allowed:   allowedExtensions,
		now:       utcNow,
	}
}

// SetClock replaces the time source.
func (s *MediaService) SetClock(c Clock) {
	s.now = c
}

// AllowedExtensions returns the accepted upload extensions.
func (s *MediaService) AllowedExtensions() []string {
	return s.allowed
}

// List returns all media, newest first.
func (s *MediaService) List(ctx context.Context) ([]store.Medium, error) {
	items, err := store.New(s.db).ListMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	return items, nil
}

// Count returns the number of media items.
func (s *MediaService) Count(ctx context.Context) (int64, error) {
	return store.New(s.db).CountMedia(ctx)
}

// Get returns media id or ErrNotFound.
func (s *MediaService) Get(ctx context.Context, id int64) (store.Medium, error) {
	m, err := store.New(s.db).GetMediumByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Medium{}, ErrNotFound
	}
	if err != nil {
		return store.Medium{}, fmt.Errorf("getting media %d: %w", id, err)
	}
	return m, nil
}

// FilePath returns the on-disk location of m inside the upload directory.
func (s *MediaService) FilePath(m store.Medium) (string, error) {
	return util.SafeJoinPath(s.uploadDir, m.Filename)
}

// Upload validates in, writes the file under a fresh unique name and records
// it. If the row cannot be inserted the written files are removed again.
func (s *MediaService) Upload(ctx context.Context, in UploadInput, actorID int64) (store.Medium, error) {
	f := in.Form
	if err := f.Validate(s.allowed).Err(); err != nil {
		return store.Medium{}, err
	}

	if err := os.MkdirAll(s.uploadDir, uploadDirFileMode); err != nil {
		return store.Medium{}, &StorageError{Op: "mkdir", Path: s.uploadDir, Err: err}
	}

	now := s.now()
	body := bufio.NewReaderSize(in.Reader, sniffLen)
	head, _ := body.Peek(sniffLen)

	stored, path, err := s.writeUnique(util.StoredFilename(util.SecureFilename(f.Filename), now), body)
	if err != nil {
		return store.Medium{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return store.Medium{}, &StorageError{Op: "stat", Path: path, Err: err}
	}

	mimeType := detectMimeType(head, stored, in.ContentType)
	params := store.CreateMediumParams{
		Filename:         stored,
		OriginalFilename: f.Filename,
		FilePath:         path,
		FileType:         f.FileType,
		MimeType:         mimeType,
		FileSize:         info.Size(),
		AltText:          util.NullString(f.AltText),
		UploadedAt:       now,
		UploadedByID:     util.NullInt64(actorID),
	}

	thumbnail := false
	if s.processor.IsRaster(mimeType) {
		if w, h, err := s.processor.Dimensions(path); err != nil {
			slog.Warn("failed to read image dimensions", "filename", stored, "error", err)
		} else {
			params.Width = sql.NullInt64{Int64: int64(w), Valid: true}
			params.Height = sql.NullInt64{Int64: int64(h), Valid: true}
		}
		if _, err := s.processor.Thumbnail(path, stored); err != nil {
			slog.Warn("failed to create thumbnail", "filename", stored, "error", err)
		} else {
			thumbnail = true
		}
	}

	var m store.Medium
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		m, err = q.CreateMedium(ctx, params)
		return err
	})
	if err != nil {
		_ = os.Remove(path)
		if thumbnail {
			_ = s.processor.RemoveThumbnail(stored)
		}
		return store.Medium{}, fmt.Errorf("saving media: %w", err)
	}

	slog.Info("media uploaded",
		"media_id", m.ID,
		"filename", m.Filename,
		"mime_type", m.MimeType,
		"size", m.FileSize,
		"uploaded_by", actorID)
	return m, nil
}

// writeUnique creates name exclusively inside the upload directory. When the
// name is taken a short uuid fragment is appended and creation retried.
func (s *MediaService) writeUnique(name string, r io.Reader) (stored, path string, err error) {
	candidate := name
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		path, err = util.SafeJoinPath(s.uploadDir, candidate)
		if err != nil {
			return "", "", &StorageError{Op: "join", Path: candidate, Err: err}
		}

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			candidate = util.WithSuffix(name, uuid.NewString()[:8])
			continue
		}
		if err != nil {
			return "", "", &StorageError{Op: "create", Path: path, Err: err}
		}

		_, copyErr := io.Copy(file, r)
		closeErr := file.Close()
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(path)
			return "", "", &StorageError{Op: "write", Path: path, Err: errors.Join(copyErr, closeErr)}
		}
		return candidate, path, nil
	}
	return "", "", &StorageError{Op: "create", Path: name, Err: os.ErrExist}
}

// Delete removes media id. The row is deleted even when the file cannot be
// removed; that failure is returned in DeleteResult.FileWarning.
func (s *MediaService) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	var res DeleteResult
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		m, err := q.GetMediumByID(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		res.Medium = m

		res.FileWarning = s.removeFiles(m)

		n, err := q.DeleteMedium(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteResult{}, err
		}
		return DeleteResult{}, fmt.Errorf("deleting media %d: %w", id, err)
	}

	if res.FileWarning != nil {
		slog.Warn("media file could not be removed", "media_id", id, "filename", res.Medium.Filename, "error", res.FileWarning)
	}
	slog.Info("media deleted", "media_id", id, "filename", res.Medium.Filename)
	return res, nil
}

func (s *MediaService) removeFiles(m store.Medium) error {
	path, err := s.FilePath(m)
	if err != nil {
		return &StorageError{Op: "remove", Path: m.Filename, Err: err}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "remove", Path: path, Err: err}
	}
	if err := s.processor.RemoveThumbnail(m.Filename); err != nil {
		return &StorageError{Op: "remove thumbnail", Path: m.Filename, Err: err}
	}
	return nil
}

// MediaURL returns the public URL of m.
func MediaURL(m store.Medium) string {
	return UploadURLPrefix + m.Filename
}

// ThumbnailURL returns the public URL of the thumbnail of m, or "" when m
// is not a raster image.
func ThumbnailURL(m store.Medium) string {
	if !m.Width.Valid {
		return ""
	}
	return UploadURLPrefix + imaging.ThumbnailDir + "/" + imaging.ThumbnailName(m.Filename)
}

// detectMimeType sniffs content first. Text and unknown binaries fall back
// to the extension (SVG sniffs as text/xml or text/plain), then to the
// client-declared type.
func detectMimeType(head []byte, filename, declared string) string {
	sniffed := http.DetectContentType(head)
	if base, _, _ := strings.Cut(sniffed, ";"); base != defaultMimeType && !strings.HasPrefix(base, "text/") {
		return base
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		base, _, _ := strings.Cut(byExt, ";")
		return base
	}
	if declared != "" {
		if base, _, err := mime.ParseMediaType(declared); err == nil {
			return base
		}
	}
	return defaultMimeType
}
