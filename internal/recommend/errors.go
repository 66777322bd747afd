// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import "errors"

// Sentinel errors for the model lifecycle and query operations.
// Callers classify failures with errors.Is; the HTTP layer maps each to
// a response code.
var (
	// ErrModelUnavailable means no trained model is serving and fallback
	// training failed. Fatal until a retrain succeeds.
	ErrModelUnavailable = errors.New("recommendation model unavailable")

	// ErrTitleNotFound means the queried title matched no corpus row.
	ErrTitleNotFound = errors.New("title not found in corpus")

	// ErrSchemaMismatch means a persisted model was built with a feature
	// schema incompatible with the current vectorizer. Treated as corrupt.
	ErrSchemaMismatch = errors.New("persisted model schema mismatch")

	// ErrFeatureSourceUnavailable means a feature source required by the
	// advanced schema (the sentiment scorer) could not serve. Recovered
	// internally by falling back to the reduced schema.
	ErrFeatureSourceUnavailable = errors.New("feature source unavailable")

	// ErrDimensionMismatch means a query vector's length differs from the
	// trained matrix dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrTrainingInProgress means a training run is already underway.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrInvalidK means the requested neighbor count is below 1.
	ErrInvalidK = errors.New("k must be at least 1")

	// ErrCorpusTooSmall means the corpus has fewer rows than the
	// configured training minimum.
	ErrCorpusTooSmall = errors.New("corpus too small to train")

	// ErrRetrainThrottled means force-retrain requests arrived faster
	// than the configured rate limit allows.
	ErrRetrainThrottled = errors.New("retrain rate limit exceeded")
)
