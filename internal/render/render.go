// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and executes them with
// the per-request data shared by every page (flash, user, theme).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/middleware"
	"github.com/olegiv/ocms-lite/internal/session"
	"github.com/olegiv/ocms-lite/internal/store"
)

// MetaDescriptionLength caps the generated <meta name="description">.
const MetaDescriptionLength = 160

// layouts maps a template directory to the layout wrapping its pages.
var layouts = map[string]string{
	"admin":  "layouts/admin.html",
	"auth":   "layouts/auth.html",
	"public": "layouts/public.html",
}

const baseLayout = "layouts/base.html"

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	markdown       goldmark.Markdown
	stripTags      *bluemonday.Policy
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		stripTags: bluemonday.StrictPolicy(),
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page as base layout + section layout +
// partials + page, keyed "section/name".
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for dir, layout := range layouts {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := []string{baseLayout, layout}
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns all .html files in a directory of the template FS.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template named name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns the custom template functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": truncate,
		// Page bodies are HTML written by administrators.
		"safe": func(s string) template.HTML {
			return template.HTML(s)
		},
		"markdown":        r.Markdown,
		"metaDescription": r.MetaDescription,
		"fileSize":        formatFileSize,
		"fieldError": func(errs form.Errors, field string) string {
			return errs.First(field)
		},
		"hasError": func(errs form.Errors, field string) bool {
			return errs.Has(field)
		},
		"isChecked": func(values map[string]string, field string) bool {
			return values[field] == "true"
		},
		"currentYear": func() int {
			return time.Now().Year()
		},
	}
}

// Markdown renders s as HTML. Raw HTML in s is escaped.
func (r *Renderer) Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

// MetaDescription strips all markup from content and shortens the text to
// MetaDescriptionLength runes.
func (r *Renderer) MetaDescription(content string) string {
	text := r.stripTags.Sanitize(content)
	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, MetaDescriptionLength)
}

func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:length])) + "..."
}

func formatFileSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// PublicSite is the chrome shared by all public pages.
type PublicSite struct {
	Theme   store.Theme
	Logo    *store.Medium
	Favicon *store.Medium
	Menu    []store.Page
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title     string
	Data      any
	Flash     string
	FlashType string
	User      *store.User
	Site      *PublicSite

	// Form state when re-rendering a submitted form.
	Values map[string]string
	Errors form.Errors
}

// Render renders a template with the given data and status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The output is
// buffered so that a template error never produces a half-written page.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data.User == nil {
		data.User = middleware.GetUser(req)
	}
	if data.Values == nil {
		data.Values = map[string]string{}
	}
	if r.sessionManager != nil && data.Flash == "" {
		data.Flash, data.FlashType = session.PopFlash(req.Context(), r.sessionManager)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		session.PutFlash(req.Context(), r.sessionManager, message, flashType)
	}
}
