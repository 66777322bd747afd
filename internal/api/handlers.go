// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Poojan38380/Book-Recommender/internal/logging"
	"github.com/Poojan38380/Book-Recommender/internal/metrics"
	"github.com/Poojan38380/Book-Recommender/internal/recommend"
)

// maxVectorRequestBytes bounds the vector query request body.
const maxVectorRequestBytes = 1 << 20

// Handler serves the recommendation API endpoints.
type Handler struct {
	engine  *recommend.Engine
	started time.Time
}

// NewHandler creates a handler backed by the given engine.
func NewHandler(engine *recommend.Engine) *Handler {
	return &Handler{
		engine:  engine,
		started: time.Now(),
	}
}

// healthResponse is the payload of GET /api/v1/health.
type healthResponse struct {
	Status        string  `json:"status"`
	ModelState    string  `json:"model_state"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// vectorRequest is the body of POST /api/v1/recommendations/vector.
type vectorRequest struct {
	Vector []float64 `json:"vector"`
	K      int       `json:"k,omitempty"`
}

// recommendationsResponse wraps a recommendation list with its query
// context.
type recommendationsResponse struct {
	Query           string                 `json:"query,omitempty"`
	Count           int                    `json:"count"`
	Recommendations []recommend.ScoredBook `json:"recommendations"`
}

// Health reports liveness. It always answers 200 as long as the
// process is up; model readiness is reported in the payload and on
// the status endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	respondJSON(w, r, http.StatusOK, healthResponse{
		Status:        "ok",
		ModelState:    h.engine.Status().State,
		UptimeSeconds: time.Since(h.started).Seconds(),
	}, started)
}

// Status returns the engine's model lifecycle snapshot.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	respondJSON(w, r, http.StatusOK, h.engine.Status(), started)
}

// RecommendByTitle handles GET /api/v1/recommendations?title=...&k=N.
func (h *Handler) RecommendByTitle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		metrics.RecordRecommendationError("title", "missing_title")
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"query parameter 'title' is required", nil)
		return
	}

	k, err := getIntParam(r, "k", 0)
	if err != nil {
		metrics.RecordRecommendationError("title", "invalid_k")
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	books, err := h.engine.RecommendByTitle(r.Context(), title, k)
	if err != nil {
		status, code, msg := mapEngineError(err)
		metrics.RecordRecommendationError("title", strings.ToLower(code))
		logging.Ctx(r.Context()).Debug().
			Err(err).
			Str("title", sanitizeLogValue(title)).
			Msg("title recommendation failed")
		respondError(w, r, status, code, msg, map[string]interface{}{
			"title": sanitizeLogValue(title),
		})
		return
	}

	metrics.RecordRecommendation("title", time.Since(started))
	respondJSON(w, r, http.StatusOK, recommendationsResponse{
		Query:           title,
		Count:           len(books),
		Recommendations: books,
	}, started)
}

// RecommendByVector handles POST /api/v1/recommendations/vector with
// a raw feature vector matching the serving model's dimension.
func (h *Handler) RecommendByVector(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req vectorRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxVectorRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordRecommendationError("vector", "bad_body")
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"request body must be JSON with a 'vector' array", nil)
		return
	}
	if len(req.Vector) == 0 {
		metrics.RecordRecommendationError("vector", "empty_vector")
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"'vector' must be a non-empty array of numbers", nil)
		return
	}

	books, err := h.engine.RecommendByVector(r.Context(), req.Vector, req.K)
	if err != nil {
		status, code, msg := mapEngineError(err)
		metrics.RecordRecommendationError("vector", strings.ToLower(code))
		respondError(w, r, status, code, msg, map[string]interface{}{
			"vector_dimension": len(req.Vector),
			"model_dimension":  h.engine.Dimension(),
		})
		return
	}

	metrics.RecordRecommendation("vector", time.Since(started))
	respondJSON(w, r, http.StatusOK, recommendationsResponse{
		Count:           len(books),
		Recommendations: books,
	}, started)
}

// Train handles POST /api/v1/recommendations/train, forcing a model
// retrain outside the scheduled interval.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	err := h.engine.ForceRetrain(r.Context())
	metrics.RecordTraining("api", time.Since(started), err)
	if err != nil {
		status, code, msg := mapEngineError(err)
		logging.Ctx(r.Context()).Warn().Err(err).Msg("forced retrain failed")
		respondError(w, r, status, code, msg, nil)
		return
	}

	st := h.engine.Status()
	metrics.UpdateModelInfo(st.SchemaName, st.Fallback, st.ModelVersion, st.Dimension, st.CorpusSize)
	logging.Ctx(r.Context()).Info().
		Str("schema", st.SchemaName).
		Int("model_version", st.ModelVersion).
		Msg("forced retrain complete")
	respondJSON(w, r, http.StatusOK, st, started)
}

// mapEngineError translates engine errors into an HTTP status and a
// stable error code.
func mapEngineError(err error) (int, string, string) {
	switch {
	case errors.Is(err, recommend.ErrTitleNotFound):
		return http.StatusNotFound, "NOT_FOUND", "title not found in corpus"
	case errors.Is(err, recommend.ErrInvalidK):
		return http.StatusBadRequest, "VALIDATION_ERROR", "k must be at least 1"
	case errors.Is(err, recommend.ErrDimensionMismatch):
		return http.StatusBadRequest, "VALIDATION_ERROR", "vector dimension does not match the serving model"
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, "TRAINING_IN_PROGRESS", "a training run is already in progress"
	case errors.Is(err, recommend.ErrRetrainThrottled):
		return http.StatusTooManyRequests, "RATE_LIMITED", "retrain requested too soon after the previous one"
	case errors.Is(err, recommend.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "no trained model is available"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
