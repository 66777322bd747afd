// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Poojan38380/Book-Recommender/internal/config"
	"github.com/Poojan38380/Book-Recommender/internal/recommend"
)

// NewRouter assembles the chi router with the full middleware stack
// and all API routes.
func NewRouter(cfg config.APIConfig, engine *recommend.Engine) http.Handler {
	h := NewHandler(engine)
	mw := NewMiddleware(cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(mw.Instrument)
	r.Use(mw.RequestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Get("/", h.RecommendByTitle)
			r.Post("/vector", h.RecommendByVector)
			r.Post("/train", h.Train)
			r.Get("/status", h.Status)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "VALIDATION_ERROR", "method not allowed", nil)
	})

	return r
}
