// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the
// folio API. Routes are organized into a public group, the auth flow and
// the admin group, each with its own middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"folio/internal/cache"
	"folio/internal/handlers"
	"folio/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	// CORSOrigins may call the API from a browser. Empty disables CORS.
	CORSOrigins []string
	// Secure marks cookies Secure (production).
	Secure bool
	// Limiter throttles the public form endpoints. Nil disables it.
	Limiter *middleware.RateLimiter
	// Cache serves public listings from Valkey. Nil disables it.
	Cache *cache.ResponseCache
	// Checker decides the admin role of a session user.
	Checker middleware.AdminChecker
	// Sessions loads the session of every request.
	Sessions middleware.SessionLoader
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(opts Options, public *handlers.Public, auth *handlers.Auth, admin *handlers.Admin) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions))

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		publicRoutes(r, opts, public)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NewCSRF(opts.Secure))
			r.Get("/csrf", auth.CSRF)
			r.With(limit(opts)).Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			// Session required, TOTP not yet.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", auth.Me)
				r.Post("/2fa/setup", auth.TwoFASetup)
				r.With(limit(opts)).Post("/2fa/verify", auth.TwoFAVerify)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NewCSRF(opts.Secure))
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin(opts.Checker))
			adminRoutes(r, admin)
		})
	})

	if len(opts.CORSOrigins) == 0 {
		return r
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(r)
}

// limit returns the rate limiting middleware, or a pass-through.
func limit(opts Options) func(http.Handler) http.Handler {
	if opts.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return opts.Limiter.Middleware
}

// cached wraps a listing in the response cache of section.
func cached(opts Options, section string) func(http.Handler) http.Handler {
	if opts.Cache == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return opts.Cache.Middleware(section)
}

func publicRoutes(r chi.Router, opts Options, p *handlers.Public) {
	r.With(cached(opts, cache.SectionSettings)).Get("/about", p.About)
	r.With(cached(opts, cache.SectionSettings)).Get("/contact-info", p.ContactInfo)
	r.With(cached(opts, cache.SectionServices)).Get("/services", p.Services)
	r.With(cached(opts, cache.SectionSkills)).Get("/skills", p.Skills)
	r.With(cached(opts, cache.SectionSkills)).Get("/technologies", p.Technologies)

	// Detail pages count views and are never cached.
	r.Route("/projects", func(r chi.Router) {
		r.With(cached(opts, cache.SectionProjects)).Get("/", p.Projects)
		r.With(cached(opts, cache.SectionProjects)).Get("/categories", p.Categories)
		r.Get("/{slug}", p.Project)
		r.With(limit(opts)).Post("/{id}/like", p.LikeProject)
	})
	r.Route("/posts", func(r chi.Router) {
		r.With(cached(opts, cache.SectionPosts)).Get("/", p.Posts)
		r.Get("/{slug}", p.Post)
		r.With(limit(opts)).Post("/{id}/like", p.LikePost)
	})

	r.With(limit(opts)).Post("/contact", p.SubmitContact)
	r.Route("/newsletter", func(r chi.Router) {
		r.Use(limit(opts))
		r.Post("/subscribe", p.Subscribe)
		r.Get("/unsubscribe", p.Unsubscribe)
		r.Post("/unsubscribe", p.Unsubscribe)
	})
}

func adminRoutes(r chi.Router, a *handlers.Admin) {
	r.Get("/dashboard", a.Dashboard)
	r.Get("/activity", a.Activity)
	r.Get("/live", a.Live)
	r.Post("/refresh/{task}", a.Refresh)
	r.Get("/views/{id}", a.ContentViews)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", a.Notifications)
		r.Post("/read-all", a.NotificationsReadAll)
		r.Post("/{id}/read", a.NotificationRead)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", a.Users)
		r.Post("/", a.UserCreate)
		r.Put("/{id}/role", a.UserSetRole)
		r.Post("/{id}/reset-2fa", a.UserResetTwoFA)
		r.Delete("/{id}", a.UserDelete)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/about", a.About)
		r.Put("/about", a.UpdateAbout)
		r.Get("/contact", a.ContactInfo)
		r.Put("/contact", a.UpdateContactInfo)
	})

	r.Route("/skills", func(r chi.Router) {
		r.Get("/", a.Skills)
		r.Post("/", a.SkillCreate)
		r.Put("/{id}", a.SkillUpdate)
		r.Delete("/{id}", a.SkillDelete)
	})

	r.Route("/technologies", func(r chi.Router) {
		r.Get("/", a.Technologies)
		r.Post("/", a.TechnologyCreate)
		r.Put("/{id}", a.TechnologyUpdate)
		r.Delete("/{id}", a.TechnologyDelete)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", a.Categories)
		r.Post("/", a.CategoryCreate)
		r.Put("/reorder", a.CategoriesReorder)
		r.Put("/{id}", a.CategoryUpdate)
		r.Delete("/{id}", a.CategoryDelete)
	})

	r.Route("/services", func(r chi.Router) {
		r.Get("/", a.Services)
		r.Post("/", a.ServiceCreate)
		r.Put("/{id}", a.ServiceUpdate)
		r.Delete("/{id}", a.ServiceDelete)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", a.Posts)
		r.Post("/", a.PostCreate)
		r.Get("/{id}", a.Post)
		r.Put("/{id}", a.PostUpdate)
		r.Delete("/{id}", a.PostDelete)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", a.Projects)
		r.Get("/{id}", a.Project)
		r.Delete("/{id}", a.ProjectDelete)
		r.Put("/{id}/technologies", a.ProjectTechnologies)

		r.Route("/drafts/{key}", func(r chi.Router) {
			r.Get("/", a.Draft)
			r.Put("/", a.DraftReplace)
			r.Delete("/", a.DraftDiscard)
			r.Patch("/fields", a.DraftSetField)
			r.Post("/items", a.DraftAddItem)
			r.Patch("/items", a.DraftUpdateItem)
			r.Delete("/items/{field}/{index}", a.DraftRemoveItem)
			r.Post("/commit", a.DraftCommit)
		})
	})

	r.Route("/messages", func(r chi.Router) {
		r.Get("/", a.Messages)
		r.Get("/{id}", a.Message)
		r.Put("/{id}/read", a.MessageSetRead)
		r.Delete("/{id}", a.MessageDelete)
	})

	r.Route("/subscribers", func(r chi.Router) {
		r.Get("/", a.Subscribers)
		r.Put("/{id}/status", a.SubscriberSetStatus)
		r.Get("/{id}/unsubscribe-link", a.SubscriberUnsubscribeLink)
		r.Delete("/{id}", a.SubscriberDelete)
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/", a.Campaigns)
		r.Post("/", a.CampaignCreate)
		r.Get("/{id}", a.Campaign)
		r.Put("/{id}", a.CampaignUpdate)
		r.Delete("/{id}", a.CampaignDelete)
	})

	r.Route("/media", func(r chi.Router) {
		r.Get("/", a.MediaLibrary)
		r.Post("/", a.MediaUpload)
		r.Delete("/{id}", a.MediaDelete)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
