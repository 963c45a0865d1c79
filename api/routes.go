package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes mounts the public site endpoints and the admin API.
func setupRoutes(r chi.Router, handlers *routeHandlers, session sessionMiddleware, loginLimiter func(http.Handler) http.Handler, metricsEnabled bool) {
	r.Get("/health", handlers.healthHandler.check())
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// Public site
		r.Get("/projects", handlers.projectHandler.list())
		r.Get("/certifications", handlers.certificateHandler.list())
		r.Get("/skills", handlers.skillHandler.list())
		r.Post("/contact", handlers.contactHandler.submit())

		r.Route("/admin", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.With(loginLimiter).Post("/login", handlers.authHandler.login())
				r.Post("/logout", handlers.authHandler.logout())
				r.With(session.authenticate).Get("/me", handlers.authHandler.me())
			})

			// Authenticated routes
			r.Group(func(r chi.Router) {
				r.Use(session.authenticate)

				mountContent(r, "/projects", handlers.projectHandler)
				mountContent(r, "/certificates", handlers.certificateHandler)
				mountContent(r, "/skills", handlers.skillHandler)

				r.Get("/contact", handlers.contactHandler.list())
				r.Delete("/contact/{id}", handlers.contactHandler.delete())

				r.Get("/stats", handlers.statsHandler.getStats())

				if handlers.uploadHandler != nil {
					r.Post("/uploads", handlers.uploadHandler.uploadImage())
				}
			})
		})
	})
}

func mountContent(r chi.Router, path string, h contentRoutes) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.list())
		r.Post("/", h.create())
		r.Get("/{id}", h.get())
		r.Put("/{id}", h.update())
		r.Delete("/{id}", h.delete())
	})
}
