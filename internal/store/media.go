// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const mediumColumns = `id, filename, original_filename, file_path, file_type, mime_type, file_size, width, height, alt_text, uploaded_at, uploaded_by_id`

func scanMedium(row interface{ Scan(...any) error }) (Medium, error) {
	var i Medium
	err := row.Scan(
		&i.ID,
		&i.Filename,
		&i.OriginalFilename,
		&i.FilePath,
		&i.FileType,
		&i.MimeType,
		&i.FileSize,
		&i.Width,
		&i.Height,
		&i.AltText,
		&i.UploadedAt,
		&i.UploadedByID,
	)
	return i, err
}

const createMedium = `INSERT INTO media (
    filename, original_filename, file_path, file_type, mime_type, file_size, width, height, alt_text, uploaded_at, uploaded_by_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediumColumns

type CreateMediumParams struct {
	Filename         string
	OriginalFilename string
	FilePath         string
	FileType         string
	MimeType         string
	FileSize         int64
	Width            sql.NullInt64
	Height           sql.NullInt64
	AltText          sql.NullString
	UploadedAt       time.Time
	UploadedByID     sql.NullInt64
}

func (q *Queries) CreateMedium(ctx context.Context, arg CreateMediumParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx, createMedium,
		arg.Filename,
		arg.OriginalFilename,
		arg.FilePath,
		arg.FileType,
		arg.MimeType,
		arg.FileSize,
		arg.Width,
		arg.Height,
		arg.AltText,
		arg.UploadedAt,
		arg.UploadedByID,
	)
	return scanMedium(row)
}

const getMediumByID = `SELECT ` + mediumColumns + ` FROM media WHERE id = ?`

func (q *Queries) GetMediumByID(ctx context.Context, id int64) (Medium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, getMediumByID, id))
}

const listMedia = `SELECT ` + mediumColumns + ` FROM media ORDER BY uploaded_at DESC, id DESC`

func (q *Queries) ListMedia(ctx context.Context) ([]Medium, error) {
	rows, err := q.db.QueryContext(ctx, listMedia)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Medium
	for rows.Next() {
		i, err := scanMedium(rows)
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

const countMedia = `SELECT COUNT(*) FROM media`

func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMedia).Scan(&count)
	return count, err
}

const deleteMedium = `DELETE FROM media WHERE id = ?`

// DeleteMedium returns the number of deleted rows.
func (q *Queries) DeleteMedium(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMedium, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
