// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"context"
	"time"
)

// BookRecord holds the cleaned, immutable attributes of one book.
// Row is the stable integer index of the record within the corpus and
// the sole join key between a feature matrix row and its metadata.
type BookRecord struct {
	// Row is the zero-based corpus row index.
	Row int `json:"row"`

	// Title is the book title. Not guaranteed unique.
	Title string `json:"title"`

	// Author is the primary author name.
	Author string `json:"author"`

	// LanguageCode is the cleaned language code (e.g., "eng", "spa").
	// Empty when unknown.
	LanguageCode string `json:"language_code"`

	// AverageRating is the mean reader rating on a 0-5 scale.
	// Zero means missing; the vectorizer substitutes the corpus mean.
	AverageRating float64 `json:"average_rating"`

	// RatingsCount is the number of ratings the book received.
	RatingsCount int `json:"ratings_count"`

	// PublicationYear is the original publication year, 0 if unknown.
	PublicationYear int `json:"publication_year,omitempty"`

	// ReviewSample is raw review text used for sentiment scoring.
	ReviewSample string `json:"-"`
}

// ScoredBook pairs a corpus book with its similarity to the query.
type ScoredBook struct {
	// Row is the corpus row index of the recommended book.
	Row int `json:"row"`

	// Title is the book title.
	Title string `json:"title"`

	// Author is the primary author name.
	Author string `json:"author"`

	// LanguageCode is the book's language code.
	LanguageCode string `json:"language_code,omitempty"`

	// AverageRating is the mean reader rating.
	AverageRating float64 `json:"average_rating"`

	// RatingsCount is the number of ratings.
	RatingsCount int `json:"ratings_count"`

	// Similarity is (2 - cosine distance) / 2, in [0, 1],
	// 1 meaning identical feature direction.
	Similarity float64 `json:"similarity"`
}

// EngineState names the model lifecycle states.
type EngineState int

const (
	// StateUninitialized means no model is loaded or trained yet.
	StateUninitialized EngineState = iota
	// StateTraining means a training run is in progress.
	StateTraining
	// StateReady means a trained model is serving queries.
	StateReady
	// StateFailed means fallback training failed; queries are refused.
	StateFailed
)

// String returns a human-readable state name.
func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTraining:
		return "training"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the engine's model lifecycle, exposed over
// the status endpoint.
type Status struct {
	// State is the current lifecycle state.
	State string `json:"state"`

	// SchemaName identifies the feature schema of the serving model.
	SchemaName string `json:"schema_name,omitempty"`

	// Dimension is the feature vector length of the serving model.
	Dimension int `json:"dimension,omitempty"`

	// Fallback reports whether the serving model uses the reduced schema.
	Fallback bool `json:"fallback"`

	// CorpusSize is the number of rows in the serving model's matrix.
	CorpusSize int `json:"corpus_size"`

	// ModelVersion is the persisted version of the serving model.
	ModelVersion int `json:"model_version"`

	// TrainedAt is when the serving model was trained.
	TrainedAt time.Time `json:"trained_at,omitzero"`

	// LastTrainingDurationMS is how long the last training run took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms,omitempty"`

	// LastError is the last training error, if any.
	LastError string `json:"last_error,omitempty"`
}

// CorpusProvider supplies the ordered, row-stable book corpus.
// Implementations must keep row indices stable for the lifetime of one
// trained model; rebuilding the corpus invalidates any matrix built
// from it, which the engine detects via the fingerprint.
type CorpusProvider interface {
	// Records returns all cleaned records in stable row order.
	Records(ctx context.Context) ([]BookRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Fingerprint returns a digest of the corpus content, stable across
	// process restarts for an unchanged corpus.
	Fingerprint(ctx context.Context) (string, error)
}

// SentimentScorer produces a scalar sentiment feature per review text.
// A scorer that failed to load must return errors, never neutral scores.
type SentimentScorer interface {
	// Score returns a sentiment value in [0, 1] for one text.
	Score(text string) (float64, error)

	// ScoreMany scores texts in order, returning one value per input.
	ScoreMany(texts []string) ([]float64, error)
}
