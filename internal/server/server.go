// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the HTTP router: the global middleware stack,
// the public site, authentication and the /admin area.
package server

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ocms-lite/internal/config"
	"github.com/olegiv/ocms-lite/internal/handler"
	"github.com/olegiv/ocms-lite/internal/logging"
	"github.com/olegiv/ocms-lite/internal/middleware"
	"github.com/olegiv/ocms-lite/internal/render"
	"github.com/olegiv/ocms-lite/internal/service"
)

// RequestTimeout bounds the handling time of every request.
const RequestTimeout = 30 * time.Second

// Browser cache lifetimes.
const (
	staticCacheTTL  = 24 * time.Hour
	uploadsCacheTTL = 7 * 24 * time.Hour
)

// Deps are the shared resources the router is built from.
type Deps struct {
	Config         *config.Config
	DB             *sql.DB
	SessionManager *scs.SessionManager
	Renderer       *render.Renderer
	// Static holds the stylesheets served under /static/.
	Static fs.FS
	// Services are created from DB when nil.
	Services *Services
	// Version is reported by /health.
	Version string
}

// Services groups the domain services used by the handlers.
type Services struct {
	Pages *service.PageService
	Media *service.MediaService
	Theme *service.ThemeService
	Users *service.UserService
}

// NewServices creates the domain services for cfg.
func NewServices(db *sql.DB, cfg *config.Config) *Services {
	return &Services{
		Pages: service.NewPageService(db),
		Media: service.NewMediaService(db, cfg.UploadDir, cfg.AllowedExtensions),
		Theme: service.NewThemeService(db),
		Users: service.NewUserService(db),
	}
}

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, PUT /{id}, POST /{id},
// DELETE /{id}, POST /{id}/delete
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Put(baseID, h.Update)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Delete(baseID, h.Delete)
	r.Post(baseID+handler.RouteSuffixDelete, h.Delete)
}

// NewRouter builds the application router.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	sm := d.SessionManager
	svc := d.Services
	if svc == nil {
		svc = NewServices(d.DB, cfg)
	}

	authHandler := handler.NewAuthHandler(d.DB, d.Renderer, sm)
	adminHandler := handler.NewAdminHandler(d.Renderer, svc.Pages, svc.Media, svc.Users)
	pagesHandler := handler.NewPagesHandler(d.Renderer, svc.Pages)
	mediaHandler := handler.NewMediaHandler(d.Renderer, svc.Media, cfg.MaxUploadSize)
	themeHandler := handler.NewThemeHandler(d.Renderer, svc.Theme, svc.Media)
	usersHandler := handler.NewUsersHandler(d.Renderer, svc.Users)
	frontendHandler := handler.NewFrontendHandler(d.Renderer, svc.Pages, svc.Theme, svc.Media)
	healthHandler := handler.NewHealthHandler(d.DB, cfg.UploadDir, d.Version)

	r := chi.NewRouter()

	// Set before any sub-router is mounted so that they inherit it.
	r.NotFound(frontendHandler.NotFound)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(sm.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SecretKey), cfg.IsDevelopment(), cfg.ServerPort)))

	r.Get(handler.RouteHealth, healthHandler.Health)

	// Static assets and uploaded files.
	if d.Static != nil {
		static := http.StripPrefix("/static/", http.FileServer(filesOnly{http.FS(d.Static)}))
		r.Handle("/static/*", middleware.CacheFor(staticCacheTTL)(static))
	}
	uploads := http.StripPrefix(service.UploadURLPrefix, http.FileServer(filesOnly{http.Dir(cfg.UploadDir)}))
	r.Handle(service.UploadURLPrefix+"*", middleware.CacheFor(uploadsCacheTTL)(uploads))

	// Public site and authentication.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sm, d.DB))

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RoutePublicPage, frontendHandler.Page)
		r.Get(handler.RouteFavicon, frontendHandler.Favicon)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireLogin(sm))
		r.Use(middleware.LoadUser(sm, d.DB))
		r.Use(middleware.RequireAdmin(sm))

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		registerCRUD(r, handler.RoutePages, handler.RoutePagesID, crudHandlers{
			List:     pagesHandler.List,
			NewForm:  pagesHandler.NewForm,
			Create:   pagesHandler.Create,
			EditForm: pagesHandler.EditForm,
			Update:   pagesHandler.Update,
			Delete:   pagesHandler.Delete,
		})

		r.Get(handler.RouteMedia, mediaHandler.List)
		r.Get(handler.RouteMedia+handler.RouteSuffixUpload, mediaHandler.UploadForm)
		r.Post(handler.RouteMedia+handler.RouteSuffixUpload, mediaHandler.Upload)
		r.Post(handler.RouteMediaID+handler.RouteSuffixDelete, mediaHandler.Delete)
		r.Delete(handler.RouteMediaID, mediaHandler.Delete)

		r.Get(handler.RouteTheme, themeHandler.Edit)
		r.Post(handler.RouteTheme, themeHandler.Update)
		r.Post(handler.RouteThemeLogoClear, themeHandler.ClearLogo)
		r.Post(handler.RouteThemeFaviconClear, themeHandler.ClearFavicon)
		r.Post(handler.RouteThemeLogo, themeHandler.SetLogo)
		r.Post(handler.RouteThemeFavicon, themeHandler.SetFavicon)

		r.Get(handler.RouteUsers, usersHandler.List)
		r.Get(handler.RouteUsers+handler.RouteSuffixNew, usersHandler.NewForm)
		r.Post(handler.RouteUsers, usersHandler.Create)
		r.Post(handler.RouteUsersID+handler.RouteSuffixDelete, usersHandler.Delete)
		r.Delete(handler.RouteUsersID, usersHandler.Delete)
	})

	slog.Info("router initialized",
		"upload_dir", cfg.UploadDir,
		"max_upload_size", cfg.MaxUploadSize,
		"hsts", !cfg.IsDevelopment(),
	)

	return r
}

// NewHTTPServer wraps h in an http.Server with the listen address and
// timeouts of cfg.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// filesOnly hides directories from http.FileServer, which would otherwise
// render listings for them.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}

	return file, nil
}
