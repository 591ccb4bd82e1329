// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Page struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Content     string        `json:"content"`
	IsPublished bool          `json:"is_published"`
	ShowInMenu  bool          `json:"show_in_menu"`
	MenuOrder   int64         `json:"menu_order"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CreatedByID sql.NullInt64 `json:"created_by_id"`
}

type Medium struct {
	ID               int64          `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"file_path"`
	FileType         string         `json:"file_type"`
	MimeType         string         `json:"mime_type"`
	FileSize         int64          `json:"file_size"`
	Width            sql.NullInt64  `json:"width"`
	Height           sql.NullInt64  `json:"height"`
	AltText          sql.NullString `json:"alt_text"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	UploadedByID     sql.NullInt64  `json:"uploaded_by_id"`
}

type Theme struct {
	ID              int64         `json:"id"`
	SiteName        string        `json:"site_name"`
	PrimaryColor    string        `json:"primary_color"`
	SecondaryColor  string        `json:"secondary_color"`
	AccentColor     string        `json:"accent_color"`
	BackgroundColor string        `json:"background_color"`
	TextColor       string        `json:"text_color"`
	LogoID          sql.NullInt64 `json:"logo_id"`
	FaviconID       sql.NullInt64 `json:"favicon_id"`
	FooterText      string        `json:"footer_text"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
