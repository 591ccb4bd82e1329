// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, title, slug, content, is_published, show_in_menu, menu_order, created_at, updated_at, created_by_id`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.IsPublished,
		&i.ShowInMenu,
		&i.MenuOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.CreatedByID,
	)
	return i, err
}

func (q *Queries) queryPages(ctx context.Context, query string, args ...any) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Page
	for rows.Next() {
		i, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPage = `INSERT INTO pages (
    title, slug, content, is_published, show_in_menu, menu_order, created_at, updated_at, created_by_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	Title       string
	Slug        string
	Content     string
	IsPublished bool
	ShowInMenu  bool
	MenuOrder   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedByID sql.NullInt64
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.IsPublished,
		arg.ShowInMenu,
		arg.MenuOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.CreatedByID,
	)
	return scanPage(row)
}

const updatePage = `UPDATE pages SET
    title = ?, slug = ?, content = ?, is_published = ?, show_in_menu = ?, menu_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

type UpdatePageParams struct {
	ID          int64
	Title       string
	Slug        string
	Content     string
	IsPublished bool
	ShowInMenu  bool
	MenuOrder   int64
	UpdatedAt   time.Time
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.IsPublished,
		arg.ShowInMenu,
		arg.MenuOrder,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPage(row)
}

const getPageByID = `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPublishedPageBySlug = `SELECT ` + pageColumns + ` FROM pages WHERE slug = ? AND is_published = 1`

func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPublishedPageBySlug, slug))
}

const listPages = `SELECT ` + pageColumns + ` FROM pages ORDER BY updated_at DESC, id DESC`

func (q *Queries) ListPages(ctx context.Context) ([]Page, error) {
	return q.queryPages(ctx, listPages)
}

const listRecentPages = `SELECT ` + pageColumns + ` FROM pages ORDER BY updated_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentPages(ctx context.Context, limit int64) ([]Page, error) {
	return q.queryPages(ctx, listRecentPages, limit)
}

const listMenuPages = `SELECT ` + pageColumns + ` FROM pages
WHERE is_published = 1 AND show_in_menu = 1
ORDER BY menu_order ASC, id ASC`

func (q *Queries) ListMenuPages(ctx context.Context) ([]Page, error) {
	return q.queryPages(ctx, listMenuPages)
}

const countPages = `SELECT COUNT(*) FROM pages`

func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPages).Scan(&count)
	return count, err
}

const countPagesByCreator = `SELECT COUNT(*) FROM pages WHERE created_by_id = ?`

func (q *Queries) CountPagesByCreator(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPagesByCreator, userID).Scan(&count)
	return count, err
}

const deletePage = `DELETE FROM pages WHERE id = ?`

// DeletePage returns the number of deleted rows.
func (q *Queries) DeletePage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
