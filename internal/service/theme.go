// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

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

// Theme defaults applied when the singleton row is first created.
const (
	DefaultSiteName        = "Mon Site Web"
	DefaultPrimaryColor    = "#007bff"
	DefaultSecondaryColor  = "#6c757d"
	DefaultAccentColor     = "#28a745"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#212529"
	DefaultFooterText      = "© 2024 Mon Site Web. Tous droits réservés."
)

// DefaultTheme returns the unsaved default theme.
func DefaultTheme() store.Theme {
	return store.Theme{
		SiteName:        DefaultSiteName,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		AccentColor:     DefaultAccentColor,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		FooterText:      DefaultFooterText,
	}
}

// ThemeAssets are the media rows a theme points to. A nil field means the
// reference is unset or points to a deleted media item.
type ThemeAssets struct {
	Logo    *store.Medium
	Favicon *store.Medium
}

// ThemeService manages the site-wide theme singleton.
type ThemeService struct {
	db  *sql.DB
	now Clock
}

// NewThemeService creates a new ThemeService.
func NewThemeService(db *sql.DB) *ThemeService {
	return &ThemeService{db: db, now: utcNow}
}

// SetClock replaces the time source.
func (s *ThemeService) SetClock(c Clock) {
	s.now = c
}

func (s *ThemeService) ensure(ctx context.Context, q *store.Queries) (store.Theme, error) {
	d := DefaultTheme()
	err := q.InsertThemeIfMissing(ctx, store.InsertThemeParams{
		SiteName:        d.SiteName,
		PrimaryColor:    d.PrimaryColor,
		SecondaryColor:  d.SecondaryColor,
		AccentColor:     d.AccentColor,
		BackgroundColor: d.BackgroundColor,
		TextColor:       d.TextColor,
		FooterText:      d.FooterText,
		UpdatedAt:       s.now(),
	})
	if err != nil {
		return store.Theme{}, err
	}
	return q.GetTheme(ctx)
}

// GetOrCreate returns the theme, creating it with defaults on first use.
// Concurrent first calls still produce exactly one row.
func (s *ThemeService) GetOrCreate(ctx context.Context) (store.Theme, error) {
	var theme store.Theme
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		theme, err = s.ensure(ctx, q)
		return err
	})
	if err != nil {
		return store.Theme{}, fmt.Errorf("loading theme: %w", err)
	}
	return theme, nil
}

// Current returns the stored theme, or the defaults when none exists yet.
// It never writes, so public pages can call it freely.
func (s *ThemeService) Current(ctx context.Context) (store.Theme, error) {
	theme, err := store.New(s.db).GetTheme(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultTheme(), nil
	}
	if err != nil {
		return store.Theme{}, fmt.Errorf("loading theme: %w", err)
	}
	return theme, nil
}

// Update validates f and replaces the name, colors and footer.
func (s *ThemeService) Update(ctx context.Context, f form.ThemeForm) (store.Theme, error) {
	if err := f.Validate().Err(); err != nil {
		return store.Theme{}, err
	}

	var theme store.Theme
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := s.ensure(ctx, q); err != nil {
			return err
		}
		var err error
		theme, err = q.UpdateTheme(ctx, store.UpdateThemeParams{
			SiteName:        f.SiteName,
			PrimaryColor:    f.PrimaryColor,
			SecondaryColor:  f.SecondaryColor,
			AccentColor:     f.AccentColor,
			BackgroundColor: f.BackgroundColor,
			TextColor:       f.TextColor,
			FooterText:      f.FooterText,
			UpdatedAt:       s.now(),
		})
		return err
	})
	if err != nil {
		return store.Theme{}, fmt.Errorf("updating theme: %w", err)
	}

	slog.Info("theme updated", "site_name", theme.SiteName)
	return theme, nil
}

// SetLogo points the theme logo at mediaID. The media type is not checked.
func (s *ThemeService) SetLogo(ctx context.Context, mediaID int64) (store.Theme, error) {
	return s.setAsset(ctx, "logo", mediaID, (*store.Queries).SetThemeLogo)
}

// SetFavicon points the theme favicon at mediaID. The media type is not checked.
func (s *ThemeService) SetFavicon(ctx context.Context, mediaID int64) (store.Theme, error) {
	return s.setAsset(ctx, "favicon", mediaID, (*store.Queries).SetThemeFavicon)
}

// ClearLogo removes the logo reference.
func (s *ThemeService) ClearLogo(ctx context.Context) (store.Theme, error) {
	return s.setAsset(ctx, "logo", 0, (*store.Queries).SetThemeLogo)
}

// ClearFavicon removes the favicon reference.
func (s *ThemeService) ClearFavicon(ctx context.Context) (store.Theme, error) {
	return s.setAsset(ctx, "favicon", 0, (*store.Queries).SetThemeFavicon)
}

type assetSetter func(q *store.Queries, ctx context.Context, id sql.NullInt64, updatedAt time.Time) (store.Theme, error)

// setAsset sets (mediaID > 0) or clears (mediaID == 0) a theme media reference.
func (s *ThemeService) setAsset(ctx context.Context, kind string, mediaID int64, set assetSetter) (store.Theme, error) {
	var theme store.Theme
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if mediaID > 0 {
			if _, err := q.GetMediumByID(ctx, mediaID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNotFound
				}
				return err
			}
		}
		if _, err := s.ensure(ctx, q); err != nil {
			return err
		}
		var err error
		theme, err = set(q, ctx, util.NullInt64(mediaID), s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return store.Theme{}, err
		}
		return store.Theme{}, fmt.Errorf("setting theme %s: %w", kind, err)
	}

	slog.Info("theme "+kind+" changed", "media_id", mediaID)
	return theme, nil
}

// Assets resolves the logo and favicon of theme. Dangling references
// resolve to nil.
func (s *ThemeService) Assets(ctx context.Context, theme store.Theme) (ThemeAssets, error) {
	q := store.New(s.db)
	var assets ThemeAssets

	lookup := func(ref sql.NullInt64) (*store.Medium, error) {
		if !ref.Valid {
			return nil, nil
		}
		m, err := q.GetMediumByID(ctx, ref.Int64)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &m, nil
	}

	var err error
	if assets.Logo, err = lookup(theme.LogoID); err != nil {
		return ThemeAssets{}, fmt.Errorf("loading theme logo: %w", err)
	}
	if assets.Favicon, err = lookup(theme.FaviconID); err != nil {
		return ThemeAssets{}, fmt.Errorf("loading theme favicon: %w", err)
	}
	return assets, nil
}
