// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Synctech site. Routes are split into the cached public site, its form
// endpoints and the session-protected admin panel.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"synctech/internal/cache"
	"synctech/internal/handlers"
	"synctech/internal/middleware"
	"synctech/internal/session"
	"synctech/web"
)

// maxAdminBody caps admin request bodies, image uploads included.
const maxAdminBody = 8 << 20

// Limits are the per-IP rate limiters. The caller owns them and stops
// them on shutdown.
type Limits struct {
	Forms *middleware.RateLimiter // POST /contact, /newsletter
	Track *middleware.RateLimiter // POST /track
	Login *middleware.RateLimiter // POST /admin/login
}

// Deps is everything the route tree needs.
type Deps struct {
	Sessions    *session.Store
	Admin       *handlers.Admin
	Auth        *handlers.Auth
	Public      *handlers.Public
	Stream      http.Handler
	Pages       *cache.PageCache // nil disables page caching
	Maintenance middleware.MaintenanceState
	Limits      Limits
	Secure      bool
}

// New creates the configured chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.Secure))
	r.Use(middleware.Maintenance(d.Maintenance, http.HandlerFunc(d.Public.Maintenance)))

	r.Get("/health", d.Public.Health)
	r.Get("/highlight.css", d.Public.HighlightCSS)
	r.Handle("/static/*", staticHandler())

	// Public pages, served from the page cache when possible.
	r.Group(func(r chi.Router) {
		r.Use(d.Pages.Middleware)
		r.Get("/", d.Public.Home)
		r.Get("/work", d.Public.Work)
		r.Get("/about", d.Public.About)
		r.Get("/pricing", d.Public.Pricing)
		r.Get("/blog", d.Public.Blog)
		r.Get("/blog/{slug}", d.Public.BlogPost)
		r.Get("/search", d.Public.Search)
		r.Get("/privacy", d.Public.Privacy)
		r.Get("/terms", d.Public.Terms)
	})

	// Public forms carry no CSRF token since their pages are cached; they
	// are rate limited instead.
	r.With(d.Limits.Forms.Middleware).Post("/contact", d.Public.Contact)
	r.With(d.Limits.Forms.Middleware).Post("/newsletter", d.Public.Newsletter)
	r.With(d.Limits.Track.Middleware).Post("/track", d.Public.Track)

	r.Route("/admin", func(r chi.Router) {
		r.Use(chimw.RequestSize(maxAdminBody))
		r.Use(middleware.NewCSRF(d.Secure))
		r.Use(middleware.LoadSession(d.Sessions))

		r.Get("/login", d.Auth.LoginPage)
		r.With(d.Limits.Login.Middleware).Post("/login", d.Auth.LoginSubmit)
		r.Post("/logout", d.Auth.Logout)

		// Signed in with a password, TOTP still pending.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
			r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			adminRoutes(r, d.Admin)
			r.Get("/events", d.Stream.ServeHTTP)
		})
	})

	r.NotFound(d.Public.NotFound)
	return r
}

func adminRoutes(r chi.Router, a *handlers.Admin) {
	r.Get("/", a.Dashboard)
	r.Get("/dashboard", a.Dashboard)

	r.Get("/analytics", a.Analytics)
	r.Post("/analytics/clear", a.AnalyticsClear)

	r.Route("/inbox", func(r chi.Router) {
		r.Get("/", a.Inbox)
		r.Post("/{id}/status", a.LeadStatus)
		r.Delete("/{id}", a.LeadDelete)
	})

	r.Route("/subscribers", func(r chi.Router) {
		r.Get("/", a.Subscribers)
		r.Post("/{id}/status", a.SubscriberStatus)
		r.Delete("/{id}", a.SubscriberDelete)
	})

	r.Get("/hero", a.Hero)
	r.Put("/hero", a.HeroSave)
	r.Post("/hero/reset", a.HeroReset)

	r.Get("/settings", a.Settings)
	r.Put("/settings", a.SettingsSave)

	crud(r, "/portfolio", a.Portfolio, a.PortfolioCreate, a.PortfolioUpdate, a.PortfolioDelete)
	crud(r, "/testimonials", a.Testimonials, a.TestimonialCreate, a.TestimonialUpdate, a.TestimonialDelete)
	crud(r, "/services", a.Services, a.ServiceCreate, a.ServiceUpdate, a.ServiceDelete)
	crud(r, "/pricing", a.Pricing, a.PlanCreate, a.PlanUpdate, a.PlanDelete)
	crud(r, "/blog", a.Blog, a.PostCreate, a.PostUpdate, a.PostDelete)
	r.Put("/blog-header", a.BlogHeaderSave)
}

// crud mounts an editor page: list, create, update and delete.
func crud(r chi.Router, path string, list, create, update, del http.HandlerFunc) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", list)
		r.Post("/", create)
		r.Put("/{id}", update)
		r.Delete("/{id}", del)
	})
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
