// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"fmt"
	"math"
)

// Schema names. The name travels with every persisted model so a load
// can detect vectors built by an incompatible vectorizer generation.
const (
	// SchemaAdvanced is the full feature set including sentiment.
	SchemaAdvanced = "advanced-v1"

	// SchemaFallback is the reduced feature set trained without the
	// sentiment dependency.
	SchemaFallback = "fallback-v1"
)

// Rating category boundaries for the advanced one-hot buckets,
// on the 0-5 rating scale.
const (
	ratingBoundLow  = 2.5
	ratingBoundMid  = 3.5
	ratingBoundHigh = 4.2
)

// ratingCategories is the number of one-hot rating buckets.
const ratingCategories = 4

// FeatureSchema freezes the feature layout and scaling parameters of
// one vectorizer generation. All bounds are fitted on the training
// corpus and reused unchanged for any later single-record build, so a
// query vector and the trained matrix share one coordinate space.
//
// Vectors built from different schemas are not comparable.
type FeatureSchema struct {
	// Name identifies the schema generation (SchemaAdvanced or
	// SchemaFallback).
	Name string

	// Dim is the total vector length.
	Dim int

	// Languages is the frozen, ordered set of language one-hot buckets.
	// A language outside this set maps to the shared "other" bucket.
	Languages []string

	// RatingMin and RatingMax are the fitted rating scaling bounds.
	RatingMin float64
	RatingMax float64

	// MeanRating substitutes for a missing rating.
	MeanRating float64

	// PopularityMin and PopularityMax bound log1p(ratings_count)
	// scaling; values outside clip to [0, 1].
	PopularityMin float64
	PopularityMax float64

	// AuthorCounts maps author name to corpus title count, frozen at
	// fit time so query-time records scale identically.
	AuthorCounts map[string]int

	// AuthorLogMax is log1p of the largest author title count.
	AuthorLogMax float64

	// WithSentiment reports whether the final component is the
	// sentiment score.
	WithSentiment bool
}

// FitSchema freezes a feature schema of the given kind over the corpus.
// The language bucket set, scaling bounds, and author counts are all
// fitted here and never refit at query time.
func FitSchema(kind string, stats *CorpusStatistics, cfg SchemaConfig) (*FeatureSchema, error) {
	if stats == nil || stats.Count == 0 {
		return nil, fmt.Errorf("fit schema: empty corpus")
	}

	popMin, popMax := stats.PopularityBounds(cfg.PopularityPercentile)

	schema := &FeatureSchema{
		Name:          kind,
		RatingMin:     stats.RatingMin,
		RatingMax:     stats.RatingMax,
		MeanRating:    stats.MeanRating,
		PopularityMin: popMin,
		PopularityMax: popMax,
		AuthorCounts:  stats.AuthorCounts,
		AuthorLogMax:  math.Log1p(float64(stats.MaxAuthorCount)),
	}

	switch kind {
	case SchemaAdvanced:
		schema.Languages = stats.TopLanguages(cfg.TopLanguages)
		schema.WithSentiment = true
		// rating + categories + popularity + languages + other + author + sentiment
		schema.Dim = 1 + ratingCategories + 1 + len(schema.Languages) + 1 + 1 + 1
	case SchemaFallback:
		schema.Languages = stats.TopLanguages(cfg.FallbackLanguages)
		schema.WithSentiment = false
		// rating + high-rating flag + popularity + languages + other + author
		schema.Dim = 1 + 1 + 1 + len(schema.Languages) + 1 + 1
	default:
		return nil, fmt.Errorf("fit schema: unknown kind %q", kind)
	}

	return schema, nil
}

// Compatible reports whether a vector of the given length can be
// queried against models built from this schema.
func (s *FeatureSchema) Compatible(dim int) bool {
	return dim == s.Dim
}

// languageIndex returns the bucket index for a language code, or -1
// when the code is not a frozen bucket.
func (s *FeatureSchema) languageIndex(code string) int {
	for i, l := range s.Languages {
		if l == code {
			return i
		}
	}
	return -1
}
