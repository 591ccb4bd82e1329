// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the CMS operations on top of the store. Every
// mutating operation runs in its own transaction and reports failures with
// the errors declared in errors.go.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/store"
	"github.com/olegiv/ocms-lite/internal/util"
)

// Clock returns the current time. Tests replace it to get deterministic timestamps.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// PageService manages pages and the public navigation menu.
type PageService struct {
	db  *sql.DB
	now Clock
}

// NewPageService creates a new PageService.
func NewPageService(db *sql.DB) *PageService {
	return &PageService{db: db, now: utcNow}
}

// SetClock replaces the time source.
func (s *PageService) SetClock(c Clock) {
	s.now = c
}

// List returns all pages, most recently updated first.
func (s *PageService) List(ctx context.Context) ([]store.Page, error) {
	pages, err := store.New(s.db).ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return pages, nil
}

// Recent returns the n most recently updated pages.
func (s *PageService) Recent(ctx context.Context, n int64) ([]store.Page, error) {
	pages, err := store.New(s.db).ListRecentPages(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("listing recent pages: %w", err)
	}
	return pages, nil
}

// Count returns the total number of pages.
func (s *PageService) Count(ctx context.Context) (int64, error) {
	return store.New(s.db).CountPages(ctx)
}

// Get returns the page with the given id or ErrNotFound.
func (s *PageService) Get(ctx context.Context, id int64) (store.Page, error) {
	page, err := store.New(s.db).GetPageByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Page{}, ErrNotFound
	}
	if err != nil {
		return store.Page{}, fmt.Errorf("getting page %d: %w", id, err)
	}
	return page, nil
}

// Create validates f and inserts a new page authored by actorID.
func (s *PageService) Create(ctx context.Context, f form.PageForm, actorID int64) (store.Page, error) {
	if err := f.Validate().Err(); err != nil {
		return store.Page{}, err
	}

	now := s.now()
	var page store.Page
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		page, err = q.CreatePage(ctx, store.CreatePageParams{
			Title:       f.Title,
			Slug:        f.Slug,
			Content:     f.Content,
			IsPublished: f.IsPublished,
			ShowInMenu:  f.ShowInMenu,
			MenuOrder:   f.MenuOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedByID: util.NullInt64(actorID),
		})
		return err
	})
	if err != nil {
		return store.Page{}, pageWriteError(err, f.Slug)
	}

	slog.Info("page created", "page_id", page.ID, "slug", page.Slug, "created_by", actorID)
	return page, nil
}

// Update replaces every editable field of page id. updated_at always moves
// forward, even when the clock has not advanced since the last write.
func (s *PageService) Update(ctx context.Context, id int64, f form.PageForm) (store.Page, error) {
	if err := f.Validate().Err(); err != nil {
		return store.Page{}, err
	}

	var page store.Page
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		existing, err := q.GetPageByID(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		updatedAt := s.now()
		if !updatedAt.After(existing.UpdatedAt) {
			updatedAt = existing.UpdatedAt.Add(time.Microsecond)
		}

		page, err = q.UpdatePage(ctx, store.UpdatePageParams{
			ID:          id,
			Title:       f.Title,
			Slug:        f.Slug,
			Content:     f.Content,
			IsPublished: f.IsPublished,
			ShowInMenu:  f.ShowInMenu,
			MenuOrder:   f.MenuOrder,
			UpdatedAt:   updatedAt,
		})
		return err
	})
	if err != nil {
		return store.Page{}, pageWriteError(err, f.Slug)
	}

	slog.Info("page updated", "page_id", page.ID, "slug", page.Slug)
	return page, nil
}

// Delete removes page id or returns ErrNotFound.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		n, err := q.DeletePage(ctx, id)
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
			return err
		}
		return fmt.Errorf("deleting page %d: %w", id, err)
	}

	slog.Info("page deleted", "page_id", id)
	return nil
}

// PublishedBySlug returns the published page with the exact slug. Drafts
// and unknown slugs both yield ErrNotFound.
func (s *PageService) PublishedBySlug(ctx context.Context, slug string) (store.Page, error) {
	page, err := store.New(s.db).GetPublishedPageBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Page{}, ErrNotFound
	}
	if err != nil {
		return store.Page{}, fmt.Errorf("getting page %q: %w", slug, err)
	}
	return page, nil
}

// Menu returns the published pages flagged for the menu, ordered by
// menu_order then id.
func (s *PageService) Menu(ctx context.Context) ([]store.Page, error) {
	pages, err := store.New(s.db).ListMenuPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menu pages: %w", err)
	}
	return pages, nil
}

func pageWriteError(err error, slug string) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if column, ok := store.UniqueViolation(err); ok && column == "slug" {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, slug)
	}
	return fmt.Errorf("saving page: %w", err)
}
