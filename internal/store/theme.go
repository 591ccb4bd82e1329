// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const themeColumns = `id, site_name, primary_color, secondary_color, accent_color, background_color, text_color, logo_id, favicon_id, footer_text, updated_at`

func scanTheme(row interface{ Scan(...any) error }) (Theme, error) {
	var i Theme
	err := row.Scan(
		&i.ID,
		&i.SiteName,
		&i.PrimaryColor,
		&i.SecondaryColor,
		&i.AccentColor,
		&i.BackgroundColor,
		&i.TextColor,
		&i.LogoID,
		&i.FaviconID,
		&i.FooterText,
		&i.UpdatedAt,
	)
	return i, err
}

const getTheme = `SELECT ` + themeColumns + ` FROM theme WHERE singleton = 1`

// GetTheme returns sql.ErrNoRows until the singleton row has been created.
func (q *Queries) GetTheme(ctx context.Context) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getTheme))
}

const insertThemeIfMissing = `INSERT INTO theme (
    singleton, site_name, primary_color, secondary_color, accent_color, background_color, text_color, footer_text, updated_at
) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (singleton) DO NOTHING`

type InsertThemeParams struct {
	SiteName        string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	FooterText      string
	UpdatedAt       time.Time
}

// InsertThemeIfMissing creates the singleton row with the given values. It
// is a no-op when the row already exists.
func (q *Queries) InsertThemeIfMissing(ctx context.Context, arg InsertThemeParams) error {
	_, err := q.db.ExecContext(ctx, insertThemeIfMissing,
		arg.SiteName,
		arg.PrimaryColor,
		arg.SecondaryColor,
		arg.AccentColor,
		arg.BackgroundColor,
		arg.TextColor,
		arg.FooterText,
		arg.UpdatedAt,
	)
	return err
}

const updateTheme = `UPDATE theme SET
    site_name = ?, primary_color = ?, secondary_color = ?, accent_color = ?,
    background_color = ?, text_color = ?, footer_text = ?, updated_at = ?
WHERE singleton = 1
RETURNING ` + themeColumns

type UpdateThemeParams struct {
	SiteName        string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	FooterText      string
	UpdatedAt       time.Time
}

func (q *Queries) UpdateTheme(ctx context.Context, arg UpdateThemeParams) (Theme, error) {
	row := q.db.QueryRowContext(ctx, updateTheme,
		arg.SiteName,
		arg.PrimaryColor,
		arg.SecondaryColor,
		arg.AccentColor,
		arg.BackgroundColor,
		arg.TextColor,
		arg.FooterText,
		arg.UpdatedAt,
	)
	return scanTheme(row)
}

const setThemeLogo = `UPDATE theme SET logo_id = ?, updated_at = ? WHERE singleton = 1
RETURNING ` + themeColumns

func (q *Queries) SetThemeLogo(ctx context.Context, logoID sql.NullInt64, updatedAt time.Time) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, setThemeLogo, logoID, updatedAt))
}

const setThemeFavicon = `UPDATE theme SET favicon_id = ?, updated_at = ? WHERE singleton = 1
RETURNING ` + themeColumns

func (q *Queries) SetThemeFavicon(ctx context.Context, faviconID sql.NullInt64, updatedAt time.Time) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, setThemeFavicon, faviconID, updatedAt))
}
