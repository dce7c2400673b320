// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storefront gateway. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"toolstore/internal/handlers"
	"toolstore/internal/i18n"
	"toolstore/internal/middleware"
)

// Options tunes the cross-cutting middleware.
type Options struct {
	// AllowedOrigins lists the browser origins allowed to call the API.
	// Empty disables CORS headers entirely.
	AllowedOrigins []string

	// SecureCookies marks the CSRF cookie HTTPS-only.
	SecureCookies bool

	// DefaultLang is used when neither the cookie nor the browser names a
	// supported language. Empty means i18n.Default.
	DefaultLang i18n.Lang

	// LoginLimiter throttles POST /admin/login. Nil disables throttling.
	LoginLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(public *handlers.Public, auth *handlers.Auth, admin *handlers.Admin, sessions middleware.SessionGetter, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", middleware.CSRFHeaderName, middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Language"},
			AllowCredentials: true,
		}).Handler)
	}
	if opts.DefaultLang != "" {
		r.Use(middleware.NewLanguage(opts.DefaultLang))
	} else {
		r.Use(middleware.Language)
	}

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	// Storefront.
	r.Get("/menu", public.Menu)
	r.Get("/product-category/*", public.CategoryPage)
	r.Route("/products", func(r chi.Router) {
		r.Get("/latest", public.LatestProducts)
		r.Get("/search", public.SearchProducts)
		r.Get("/{id}", public.Product)
	})
	r.Get("/blog", public.Blog)
	r.Get("/blog/{id}", public.Article)
	r.Get("/catalogues", public.Catalogues)
	r.Get("/service-centers", public.ServiceCenters)
	r.Get("/pages/{name}", public.StaticPage)
	r.Get("/i18n", public.Translations)
	r.Post("/lang", public.SetLanguage)

	// Admin routes: CSRF protection everywhere, a session everywhere but login.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.LoadSession(sessions))

		// Auth pages, accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(opts.LoginLimiter.Middleware)
			}
			r.Post("/login", auth.LoginSubmit)
		})
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", auth.Me)
			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoryList)
				r.Get("/parent-options", admin.ParentOptions)
				r.Post("/", admin.CategoryCreate)
				r.Patch("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", admin.ProductList)
				r.Post("/", admin.ProductCreate)
				r.Patch("/{id}", admin.ProductUpdate)
				r.Delete("/{id}", admin.ProductDelete)
			})

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", admin.ArticleList)
				r.Post("/", admin.ArticleCreate)
				r.Patch("/{id}", admin.ArticleUpdate)
				r.Delete("/{id}", admin.ArticleDelete)
			})

			r.Route("/catalogues", func(r chi.Router) {
				r.Get("/", admin.CatalogueList)
				r.Post("/", admin.CatalogueCreate)
				r.Patch("/{id}", admin.CatalogueUpdate)
				r.Delete("/{id}", admin.CatalogueDelete)
			})

			r.Route("/service-centers", func(r chi.Router) {
				r.Get("/", admin.ServiceCenterList)
				r.Post("/", admin.ServiceCenterCreate)
				r.Patch("/{id}", admin.ServiceCenterUpdate)
				r.Delete("/{id}", admin.ServiceCenterDelete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
