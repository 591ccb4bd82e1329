// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-lite/internal/auth"
	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/store"
	"github.com/olegiv/ocms-lite/internal/testutil"
)

var testAllowed = []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "txt"}

func fixedClock(t time.Time) service.Clock {
	return func() time.Time { return t }
}

func createUser(t *testing.T, users *service.UserService, name string, admin bool) store.User {
	t.Helper()
	u, err := users.Create(context.Background(), form.UserForm{
		Username:        name,
		Email:           name + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		IsAdmin:         admin,
	})
	require.NoError(t, err)
	return u
}

func pageForm(title, slug string, published, inMenu bool, order int64) form.PageForm {
	return form.PageForm{
		Title:       title,
		Slug:        slug,
		Content:     "Content of " + title,
		IsPublished: published,
		ShowInMenu:  inMenu,
		MenuOrder:   order,
	}
}

func TestPageEditRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	users := service.NewUserService(db)
	pages := service.NewPageService(db)
	admin := createUser(t, users, "admin", true)

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	pages.SetClock(fixedClock(now))

	created, err := pages.Create(ctx, pageForm("Hello", "hello", true, true, 0), admin.ID)
	require.NoError(t, err)
	assert.True(t, created.CreatedByID.Valid)
	assert.Equal(t, admin.ID, created.CreatedByID.Int64)

	edit := pageForm("Hello again", "hello-again", false, false, 7)
	updated, err := pages.Update(ctx, created.ID, edit)
	require.NoError(t, err)

	got, err := pages.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Title)
	assert.Equal(t, "hello-again", got.Slug)
	assert.Equal(t, edit.Content, got.Content)
	assert.False(t, got.IsPublished)
	assert.False(t, got.ShowInMenu)
	assert.Equal(t, int64(7), got.MenuOrder)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt), "created_at must not change")
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt), "updated_at must increase with a frozen clock")

	again, err := pages.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
}

func TestPageDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	pages := service.NewPageService(db)

	_, err := pages.Create(ctx, pageForm("Home", "home", true, true, 0), 0)
	require.NoError(t, err)

	_, err = pages.Create(ctx, pageForm("Home 2", "home", true, true, 1), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrDuplicateSlug)

	other, err := pages.Create(ctx, pageForm("Other", "other", true, true, 1), 0)
	require.NoError(t, err)
	_, err = pages.Update(ctx, other.ID, pageForm("Other", "home", true, true, 1))
	assert.ErrorIs(t, err, service.ErrDuplicateSlug)

	count, err := pages.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPageValidationError(t *testing.T) {
	db := testutil.TestDB(t)
	pages := service.NewPageService(db)

	_, err := pages.Create(context.Background(), pageForm("Bad", "Bad Slug", true, true, 0), 0)
	require.Error(t, err)

	errs, ok := service.IsValidation(err)
	require.True(t, ok)
	assert.True(t, errs.Has("slug"))
}

func TestUnpublishedPageIsHidden(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	pages := service.NewPageService(db)

	_, err := pages.Create(ctx, pageForm("Draft", "draft", false, true, 0), 0)
	require.NoError(t, err)

	_, err = pages.PublishedBySlug(ctx, "draft")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = pages.PublishedBySlug(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)

	menu, err := pages.Menu(ctx)
	require.NoError(t, err)
	assert.Empty(t, menu)
}

func TestMenuOrdering(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	pages := service.NewPageService(db)

	for _, f := range []form.PageForm{
		pageForm("Contact", "contact", true, true, 2),
		pageForm("Hidden", "hidden", true, false, 0),
		pageForm("Home", "home", true, true, 0),
		pageForm("Draft", "draft", false, true, 1),
		pageForm("About", "about", true, true, 1),
	} {
		_, err := pages.Create(ctx, f, 0)
		require.NoError(t, err)
	}

	menu, err := pages.Menu(ctx)
	require.NoError(t, err)

	var orders []int64
	var slugs []string
	for _, p := range menu {
		orders = append(orders, p.MenuOrder)
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []int64{0, 1, 2}, orders)
	assert.Equal(t, []string{"home", "about", "contact"}, slugs)
}

func TestPageDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	pages := service.NewPageService(db)

	p, err := pages.Create(ctx, pageForm("Gone", "gone", true, true, 0), 0)
	require.NoError(t, err)

	require.NoError(t, pages.Delete(ctx, p.ID))
	assert.ErrorIs(t, pages.Delete(ctx, p.ID), service.ErrNotFound)
	_, err = pages.Get(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteUserKeepsPages(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	users := service.NewUserService(db)
	pages := service.NewPageService(db)

	admin := createUser(t, users, "admin", true)
	author := createUser(t, users, "author", false)

	p, err := pages.Create(ctx, pageForm("Mine", "mine", true, true, 0), author.ID)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, admin.ID, author.ID))

	got, err := pages.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.CreatedByID.Valid)

	_, err = users.Get(ctx, author.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, users.Delete(ctx, admin.ID, author.ID), service.ErrNotFound)
}

func TestSelfDeletionRefused(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	users := service.NewUserService(db)

	admin := createUser(t, users, "admin", true)
	createUser(t, users, "other", false)

	before, err := users.List(ctx)
	require.NoError(t, err)

	err = users.Delete(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, service.ErrSelfDeletion)

	after, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
	_, err = users.Get(ctx, admin.ID)
	assert.NoError(t, err)
}

func TestCreateUserDuplicates(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	users := service.NewUserService(db)
	createUser(t, users, "alice", false)

	tests := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{"same username", "alice", "other@example.com", "username"},
		{"same email", "bob", "alice@example.com", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Create(ctx, form.UserForm{
				Username:        tt.username,
				Email:           tt.email,
				Password:        "secret123",
				ConfirmPassword: "secret123",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrDuplicateUser)

			var dup *service.DuplicateUserError
			require.True(t, errors.As(err, &dup))
			assert.Equal(t, tt.wantField, dup.Field)
		})
	}
}

func TestUserPasswordIsHashed(t *testing.T) {
	db := testutil.TestDB(t)
	users := service.NewUserService(db)

	u := createUser(t, users, "carol", false)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	ok, err := auth.CheckPassword("secret123", u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CheckPassword("wrong", u.PasswordHash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	users := service.NewUserService(db)
	authSvc := service.NewAuthService(db)
	created := createUser(t, users, "dave", true)

	u, err := authSvc.Authenticate(ctx, "dave", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = authSvc.Authenticate(ctx, "dave", "nope")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = authSvc.Authenticate(ctx, "Dave", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = authSvc.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthenticateUpgradesStaleHash(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	users := service.NewUserService(db)
	authSvc := service.NewAuthService(db)
	u := createUser(t, users, "erin", false)

	weak := auth.DefaultParams
	weak.Time = 1
	stale, err := auth.HashWithParams("secret123", weak)
	require.NoError(t, err)
	require.NoError(t, store.New(db).UpdateUserPassword(ctx, u.ID, stale))
	require.True(t, auth.NeedsRehash(stale))

	_, err = authSvc.Authenticate(ctx, "erin", "secret123")
	require.NoError(t, err)

	reloaded, err := users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, stale, reloaded.PasswordHash)
	assert.False(t, auth.NeedsRehash(reloaded.PasswordHash))
}

func TestThemeGetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	themes := service.NewThemeService(db)

	current, err := themes.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultSiteName, current.SiteName)
	assert.Zero(t, current.ID, "Current must not create the row")

	first, err := themes.GetOrCreate(ctx)
	require.NoError(t, err)
	second, err := themes.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, service.DefaultPrimaryColor, first.PrimaryColor)
	assert.Equal(t, service.DefaultFooterText, first.FooterText)
}

func TestThemeUpdateValidatesColors(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	themes := service.NewThemeService(db)

	f := form.ThemeForm{
		SiteName:        "My Site",
		PrimaryColor:    "blue",
		SecondaryColor:  "#6c757d",
		AccentColor:     "#28a745",
		BackgroundColor: "#ffffff",
		TextColor:       "#212529",
		FooterText:      "footer",
	}
	_, err := themes.Update(ctx, f)
	errs, ok := service.IsValidation(err)
	require.True(t, ok)
	assert.True(t, errs.Has("primary_color"))

	f.PrimaryColor = "#1A2B3C"
	theme, err := themes.Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "#1A2B3C", theme.PrimaryColor)
	assert.Equal(t, "My Site", theme.SiteName)

	current, err := themes.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#1A2B3C", current.PrimaryColor)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, media *service.MediaService, name string, body []byte) store.Medium {
	t.Helper()
	m, err := media.Upload(context.Background(), service.UploadInput{
		Form:   form.MediaUploadForm{Filename: name},
		Reader: bytes.NewReader(body),
	}, 0)
	require.NoError(t, err)
	return m
}

func TestUploadSameNameTwice(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	dir := filepath.Join(t.TempDir(), "uploads")
	media := service.NewMediaService(db, dir, testAllowed)
	media.SetClock(fixedClock(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))

	body := pngBytes(t, 40, 30)
	first := upload(t, media, "Mon Logo.png", body)
	second := upload(t, media, "Mon Logo.png", body)

	assert.Equal(t, "Mon_Logo_20240506_070809.png", first.Filename)
	assert.NotEqual(t, first.Filename, second.Filename)
	assert.True(t, strings.HasPrefix(second.Filename, "Mon_Logo_20240506_070809_"))
	assert.Equal(t, "Mon Logo.png", second.OriginalFilename)

	for _, m := range []store.Medium{first, second} {
		assert.Equal(t, "image/png", m.MimeType)
		assert.Equal(t, int64(len(body)), m.FileSize)
		assert.Equal(t, form.DefaultFileType, m.FileType)
		assert.Equal(t, int64(40), m.Width.Int64)
		assert.Equal(t, int64(30), m.Height.Int64)
		assert.FileExists(t, filepath.Join(dir, m.Filename))
	}

	res, err := media.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.NoError(t, res.FileWarning)
	assert.NoFileExists(t, filepath.Join(dir, first.Filename))
	assert.FileExists(t, filepath.Join(dir, second.Filename))

	_, err = media.Get(ctx, second.ID)
	assert.NoError(t, err)
	_, err = media.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	count, err := media.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUploadSVGUsesExtensionType(t *testing.T) {
	db := testutil.TestDB(t)
	dir := t.TempDir()
	media := service.NewMediaService(db, dir, testAllowed)

	m := upload(t, media, "../../logo.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"/>`))
	assert.Equal(t, "image/svg+xml", m.MimeType)
	assert.True(t, strings.HasPrefix(m.Filename, "logo_"))
	assert.False(t, m.Width.Valid)
	assert.Empty(t, service.ThumbnailURL(m))
	assert.Equal(t, "/uploads/"+m.Filename, service.MediaURL(m))
}

func TestUploadRejectsExtension(t *testing.T) {
	db := testutil.TestDB(t)
	dir := t.TempDir()
	media := service.NewMediaService(db, dir, []string{"png"})

	_, err := media.Upload(context.Background(), service.UploadInput{
		Form:   form.MediaUploadForm{Filename: "script.exe"},
		Reader: strings.NewReader("MZ"),
	}, 0)
	errs, ok := service.IsValidation(err)
	require.True(t, ok)
	assert.True(t, errs.Has("file"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteMediaWithMissingFile(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	dir := t.TempDir()
	media := service.NewMediaService(db, dir, testAllowed)

	m := upload(t, media, "notes.txt", []byte("hello"))
	require.NoError(t, os.Remove(filepath.Join(dir, m.Filename)))

	res, err := media.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.NoError(t, res.FileWarning)
	assert.Equal(t, m.ID, res.Medium.ID)
}

func TestDeleteMediaRemovalFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	dir := t.TempDir()
	media := service.NewMediaService(db, dir, testAllowed)

	m := upload(t, media, "notes.txt", []byte("hello"))
	path := filepath.Join(dir, m.Filename)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o600))

	res, err := media.Delete(ctx, m.ID)
	require.NoError(t, err)
	require.Error(t, res.FileWarning)

	var storageErr *service.StorageError
	require.ErrorAs(t, res.FileWarning, &storageErr)
	assert.Equal(t, "remove", storageErr.Op)
	assert.Equal(t, 1, strings.Count(res.FileWarning.Error(), path))

	count, err := media.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = media.Get(ctx, m.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUploadStorageFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	dir := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))
	media := service.NewMediaService(db, dir, testAllowed)

	_, err := media.Upload(ctx, service.UploadInput{
		Form:   form.MediaUploadForm{Filename: "notes.txt"},
		Reader: bytes.NewReader([]byte("hello")),
	}, 0)
	require.Error(t, err)

	var storageErr *service.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "mkdir", storageErr.Op)
	assert.Equal(t, 1, strings.Count(err.Error(), dir))

	count, err := media.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStorageErrorMessage(t *testing.T) {
	plain := &service.StorageError{Op: "remove", Path: "a.png", Err: errors.New("boom")}
	assert.Equal(t, "storage: remove a.png: boom", plain.Error())

	wrapped := &service.StorageError{
		Op:   "remove",
		Path: "/srv/uploads/a.png",
		Err:  &os.PathError{Op: "remove", Path: "/srv/uploads/a.png", Err: errors.New("directory not empty")},
	}
	assert.Equal(t, "storage: remove: remove /srv/uploads/a.png: directory not empty", wrapped.Error())
}

func TestThemeLogoReferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.TestDB(t)
	dir := t.TempDir()
	media := service.NewMediaService(db, dir, testAllowed)
	themes := service.NewThemeService(db)

	_, err := themes.SetLogo(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	logo := upload(t, media, "logo.png", pngBytes(t, 8, 8))
	theme, err := themes.SetLogo(ctx, logo.ID)
	require.NoError(t, err)
	assert.Equal(t, sql.NullInt64{Int64: logo.ID, Valid: true}, theme.LogoID)

	theme, err = themes.SetFavicon(ctx, logo.ID)
	require.NoError(t, err)

	assets, err := themes.Assets(ctx, theme)
	require.NoError(t, err)
	require.NotNil(t, assets.Logo)
	assert.Equal(t, logo.ID, assets.Logo.ID)

	_, err = media.Delete(ctx, logo.ID)
	require.NoError(t, err)

	theme, err = themes.Current(ctx)
	require.NoError(t, err)
	assert.True(t, theme.LogoID.Valid, "reference is kept after the media row is gone")

	assets, err = themes.Assets(ctx, theme)
	require.NoError(t, err)
	assert.Nil(t, assets.Logo)
	assert.Nil(t, assets.Favicon)

	theme, err = themes.ClearLogo(ctx)
	require.NoError(t, err)
	assert.False(t, theme.LogoID.Valid)
	assert.True(t, theme.FaviconID.Valid)
}
