// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"net/http"
	"net/mail"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-lite/internal/util"
)

// Field limits shared with the database schema.
const (
	MaxTitleLength    = 200
	MaxSlugLength     = 200
	MaxSiteNameLength = 200
	MaxUsernameLength = 80
	MaxEmailLength    = 120
	MaxAltTextLength  = 255
	MaxFileTypeLength = 50
	MinPasswordLength = 6
)

// DefaultFileType is stored when an upload does not specify one.
const DefaultFileType = "image"

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s is a #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// PageForm is the create/edit page schema.
type PageForm struct {
	Title       string
	Slug        string
	Content     string
	IsPublished bool
	ShowInMenu  bool
	MenuOrder   int64

	menuOrderRaw string
}

// PageFromRequest reads a PageForm from a submitted form.
func PageFromRequest(r *http.Request) PageForm {
	return PageForm{
		Title:        strings.TrimSpace(r.PostFormValue("title")),
		Slug:         strings.TrimSpace(r.PostFormValue("slug")),
		Content:      r.PostFormValue("content"),
		IsPublished:  checkbox(r, "is_published"),
		ShowInMenu:   checkbox(r, "show_in_menu"),
		menuOrderRaw: strings.TrimSpace(r.PostFormValue("menu_order")),
	}
}

// Validate checks the page fields and parses menu_order.
func (f *PageForm) Validate() Errors {
	errs := Errors{}

	if required(errs, "title", "Title", f.Title) {
		maxLength(errs, "title", "Title", f.Title, MaxTitleLength)
	}

	if required(errs, "slug", "Slug", f.Slug) {
		maxLength(errs, "slug", "Slug", f.Slug, MaxSlugLength)
		if !util.IsValidSlug(f.Slug) {
			errs.Add("slug", "Slug may only contain lowercase letters, numbers and hyphens")
		}
	}

	required(errs, "content", "Content", f.Content)

	if f.menuOrderRaw != "" {
		n, err := strconv.ParseInt(f.menuOrderRaw, 10, 64)
		if err != nil {
			errs.Add("menu_order", "Menu order must be a whole number")
		} else {
			f.MenuOrder = n
		}
	}

	return errs
}

// Values returns the submitted values for re-rendering the form.
func (f PageForm) Values() map[string]string {
	order := f.menuOrderRaw
	if order == "" {
		order = strconv.FormatInt(f.MenuOrder, 10)
	}
	return map[string]string{
		"title":        f.Title,
		"slug":         f.Slug,
		"content":      f.Content,
		"menu_order":   order,
		"is_published": strconv.FormatBool(f.IsPublished),
		"show_in_menu": strconv.FormatBool(f.ShowInMenu),
	}
}

// MediaUploadForm is the upload schema. The file itself is streamed by the
// caller; only its client-provided name is validated here.
type MediaUploadForm struct {
	Filename string
	AltText  string
	FileType string
}

// MediaFromRequest reads the text fields of an upload. filename is the
// client-provided name of the uploaded part, or "" when no file was sent.
func MediaFromRequest(r *http.Request, filename string) MediaUploadForm {
	return MediaUploadForm{
		Filename: filename,
		AltText:  strings.TrimSpace(r.PostFormValue("alt_text")),
		FileType: strings.TrimSpace(r.PostFormValue("file_type")),
	}
}

// Validate checks the upload against the extension allow-list. The
// comparison is case-insensitive. An empty FileType becomes DefaultFileType.
func (f *MediaUploadForm) Validate(allowedExtensions []string) Errors {
	errs := Errors{}

	if required(errs, "file", "File", f.Filename) {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Filename), "."))
		allowed := false
		for _, a := range allowedExtensions {
			if strings.EqualFold(a, ext) {
				allowed = true
				break
			}
		}
		if !allowed {
			errs.Add("file", "File type not allowed; accepted: "+strings.Join(allowedExtensions, ", "))
		}
	}

	maxLength(errs, "alt_text", "Alt text", f.AltText, MaxAltTextLength)

	if f.FileType == "" {
		f.FileType = DefaultFileType
	}
	maxLength(errs, "file_type", "Type", f.FileType, MaxFileTypeLength)

	return errs
}

// ThemeForm is the theme customization schema.
type ThemeForm struct {
	SiteName        string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	FooterText      string
}

// ThemeFromRequest reads a ThemeForm from a submitted form.
func ThemeFromRequest(r *http.Request) ThemeForm {
	v := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	return ThemeForm{
		SiteName:        v("site_name"),
		PrimaryColor:    v("primary_color"),
		SecondaryColor:  v("secondary_color"),
		AccentColor:     v("accent_color"),
		BackgroundColor: v("background_color"),
		TextColor:       v("text_color"),
		FooterText:      r.PostFormValue("footer_text"),
	}
}

// Validate checks the site name and every color.
func (f *ThemeForm) Validate() Errors {
	errs := Errors{}

	if required(errs, "site_name", "Site name", f.SiteName) {
		maxLength(errs, "site_name", "Site name", f.SiteName, MaxSiteNameLength)
	}

	colors := []struct {
		field, label, value string
	}{
		{"primary_color", "Primary color", f.PrimaryColor},
		{"secondary_color", "Secondary color", f.SecondaryColor},
		{"accent_color", "Accent color", f.AccentColor},
		{"background_color", "Background color", f.BackgroundColor},
		{"text_color", "Text color", f.TextColor},
	}
	for _, c := range colors {
		if required(errs, c.field, c.label, c.value) && !IsHexColor(c.value) {
			errs.Add(c.field, c.label+" must use the format #RRGGBB")
		}
	}

	return errs
}

// Values returns the submitted values for re-rendering the form.
func (f ThemeForm) Values() map[string]string {
	return map[string]string{
		"site_name":        f.SiteName,
		"primary_color":    f.PrimaryColor,
		"secondary_color":  f.SecondaryColor,
		"accent_color":     f.AccentColor,
		"background_color": f.BackgroundColor,
		"text_color":       f.TextColor,
		"footer_text":      f.FooterText,
	}
}

// UserForm is the create-user schema.
type UserForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	IsAdmin         bool
}

// UserFromRequest reads a UserForm from a submitted form.
func UserFromRequest(r *http.Request) UserForm {
	return UserForm{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		IsAdmin:         checkbox(r, "is_admin"),
	}
}

// Validate checks the user fields. Uniqueness is enforced by the store.
func (f *UserForm) Validate() Errors {
	errs := Errors{}

	if required(errs, "username", "Username", f.Username) {
		maxLength(errs, "username", "Username", f.Username, MaxUsernameLength)
	}

	if required(errs, "email", "Email", f.Email) {
		if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
			errs.Add("email", "Invalid email address")
		}
		maxLength(errs, "email", "Email", f.Email, MaxEmailLength)
	}

	if required(errs, "password", "Password", f.Password) {
		minLength(errs, "password", "Password", f.Password, MinPasswordLength)
	}

	if required(errs, "confirm_password", "Password confirmation", f.ConfirmPassword) &&
		f.ConfirmPassword != f.Password {
		errs.Add("confirm_password", "Passwords do not match")
	}

	return errs
}

// Values returns the non-secret submitted values for re-rendering the form.
func (f UserForm) Values() map[string]string {
	return map[string]string{
		"username": f.Username,
		"email":    f.Email,
		"is_admin": strconv.FormatBool(f.IsAdmin),
	}
}

// LoginForm is the login schema.
type LoginForm struct {
	Username   string
	Password   string
	RememberMe bool
}

// LoginFromRequest reads a LoginForm from a submitted form.
func LoginFromRequest(r *http.Request) LoginForm {
	return LoginForm{
		Username:   strings.TrimSpace(r.PostFormValue("username")),
		Password:   r.PostFormValue("password"),
		RememberMe: checkbox(r, "remember_me"),
	}
}

// Validate checks that both credentials are present.
func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	required(errs, "username", "Username", f.Username)
	required(errs, "password", "Password", f.Password)
	return errs
}
