// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yordsite/yord/internal/metrics"
	"github.com/yordsite/yord/internal/middleware"
	"github.com/yordsite/yord/internal/render"
	"github.com/yordsite/yord/internal/service"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	DB              *sql.DB
	SessionManager  *scs.SessionManager
	Renderer        *render.Renderer
	Members         *service.MemberService
	Users           *service.UserService
	LoginProtection *middleware.LoginProtection
	FormLimiter     *middleware.PublicRateLimiter
	Metrics         *metrics.Metrics
	CSRF            middleware.CSRFConfig
	IsDevelopment   bool
	StaticFS        fs.FS
	Version         string
}

// NewRouter wires every route of the site.
func NewRouter(d Deps) http.Handler {
	generalHandler := NewGeneralHandler(d.Members, d.Renderer, d.Metrics)
	authHandler := NewAuthHandler(d.Users, d.Renderer, d.SessionManager, d.LoginProtection, d.Metrics)
	mailingHandler := NewMailingHandler(d.Members, d.Renderer, d.Metrics)
	healthHandler := NewHealthHandler(d.DB, d.Version)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDevelopment)))

	// Machine endpoints need neither sessions nor CSRF protection.
	r.Get(RouteHealth, healthHandler.Health)
	r.Handle(RouteMetrics, d.Metrics.Handler())
	if d.StaticFS != nil {
		r.Handle(RouteStatic, http.StripPrefix("/static/", http.FileServer(http.FS(d.StaticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(d.SessionManager.LoadAndSave)
		r.Use(middleware.CSRF(d.CSRF))
		r.Use(middleware.Identify(d.SessionManager, d.Users))

		formLimit := func(next http.Handler) http.Handler { return next }
		if d.FormLimiter != nil {
			formLimit = d.FormLimiter.Middleware()
		}
		loginLimit := func(next http.Handler) http.Handler { return next }
		if d.LoginProtection != nil {
			loginLimit = d.LoginProtection.Middleware()
		}

		// Public pages
		for _, route := range []string{RouteRoot, RouteRegister} {
			r.Get(route, generalHandler.Home)
			r.With(formLimit).Post(route, generalHandler.Register)
		}
		r.Get(RouteConfirm, generalHandler.Confirm)
		r.Get(RouteError, generalHandler.SignupError)
		r.Get(RouteAbout, generalHandler.About)
		r.Get(RouteGallery, generalHandler.Gallery)
		r.Get(RouteContact, generalHandler.ContactForm)
		r.With(formLimit).Post(RouteContact, generalHandler.Contact)

		// Authentication
		r.Get(RouteLogin, authHandler.LoginForm)
		r.With(loginLimit).Post(RouteLogin, authHandler.Login)
		r.Get(RouteLogout, authHandler.Logout)
		r.Post(RouteLogout, authHandler.Logout)

		// Mailing list administration
		r.Route(RouteMembers, func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get(RouteRoot, mailingHandler.List)
			r.Get(RouteParamID+RouteSuffixEdit, mailingHandler.EditForm)
			r.Post(RouteParamID+RouteSuffixEdit, mailingHandler.Update)
			r.Get(RouteParamID+RouteSuffixDelete, mailingHandler.Delete)
		})
	})

	return r
}
