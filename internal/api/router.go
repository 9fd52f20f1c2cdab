// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/folio/internal/middleware"
)

// Router builds the chi route tree for a Handler.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw}
}

// Setup returns the complete http.Handler.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders)

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimitHealth())
			r.Get("/health/live", h.HealthLive)
			r.Get("/health/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit("api"))
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/books", h.Books)
			r.Get("/books/similar", h.SimilarBooks)
			r.Get("/recommendations", h.Recommendations)
			r.Post("/recommendations/image", h.RecommendationsFromImage)

			r.Get("/catalog/status", h.CatalogStatus)
			r.Post("/catalog/reload", h.CatalogReload)

			r.Post("/profiles", h.CreateProfile)
			r.Get("/profiles/{username}", h.GetProfile)
			r.Delete("/profiles/{username}", h.DeleteProfile)

			r.Post("/notifications", h.CreateNotification)
		})
	})

	return r
}
