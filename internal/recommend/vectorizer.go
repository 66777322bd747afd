// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"context"
	"fmt"
	"math"
)

// Build converts one record into a feature vector under the schema.
// It never fails for a structurally valid record: missing fields map to
// defined neutral values (missing rating to the corpus mean, unknown
// language to an all-zero language group, unknown author to zero).
//
// sentiment is the pre-computed sentiment score for the record's review
// sample; it is ignored for schemas without the sentiment component.
func Build(rec *BookRecord, schema *FeatureSchema, sentiment float64) []float64 {
	vec := make([]float64, schema.Dim)
	i := 0

	rating := rec.AverageRating
	if rating <= 0 {
		rating = schema.MeanRating
	}

	vec[i] = minMax(rating, schema.RatingMin, schema.RatingMax)
	i++

	if schema.WithSentiment {
		// One-hot rating category buckets.
		vec[i+ratingCategory(rating)] = 1
		i += ratingCategories
	} else {
		// Reduced schema keeps a single binary quality signal.
		if rating >= ratingBoundMid {
			vec[i] = 1
		}
		i++
	}

	vec[i] = minMax(math.Log1p(float64(rec.RatingsCount)), schema.PopularityMin, schema.PopularityMax)
	i++

	// Language group: one bucket per frozen top language plus a shared
	// "other" bucket. An empty code leaves the whole group zero.
	if rec.LanguageCode != "" {
		if idx := schema.languageIndex(rec.LanguageCode); idx >= 0 {
			vec[i+idx] = 1
		} else {
			vec[i+len(schema.Languages)] = 1
		}
	}
	i += len(schema.Languages) + 1

	vec[i] = authorScore(rec.Author, schema)
	i++

	if schema.WithSentiment {
		vec[i] = clip01(sentiment)
	}

	return vec
}

// BuildMatrix builds the N x D feature matrix for the full corpus.
// Row i of the result corresponds to records[i].
//
// For a schema with the sentiment component, the scorer must be able to
// serve every record in one batch; a nil or failing scorer returns
// ErrFeatureSourceUnavailable so the caller can fall back to the
// reduced schema.
func BuildMatrix(ctx context.Context, records []BookRecord, schema *FeatureSchema, scorer SentimentScorer) ([][]float64, error) {
	var sentiments []float64

	if schema.WithSentiment {
		if scorer == nil {
			return nil, fmt.Errorf("build matrix: no sentiment scorer: %w", ErrFeatureSourceUnavailable)
		}

		texts := make([]string, len(records))
		for i := range records {
			texts[i] = records[i].ReviewSample
		}

		var err error
		sentiments, err = scorer.ScoreMany(texts)
		if err != nil {
			return nil, fmt.Errorf("build matrix: score reviews: %w: %w", ErrFeatureSourceUnavailable, err)
		}
		if len(sentiments) != len(records) {
			return nil, fmt.Errorf("build matrix: scorer returned %d scores for %d records: %w",
				len(sentiments), len(records), ErrFeatureSourceUnavailable)
		}
	}

	matrix := make([][]float64, len(records))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build matrix: %w", err)
		}

		sentiment := 0.0
		if sentiments != nil {
			sentiment = sentiments[i]
		}
		matrix[i] = Build(&records[i], schema, sentiment)
	}

	return matrix, nil
}

// ratingCategory maps a rating to its one-hot bucket index.
func ratingCategory(rating float64) int {
	switch {
	case rating < ratingBoundLow:
		return 0
	case rating < ratingBoundMid:
		return 1
	case rating < ratingBoundHigh:
		return 2
	default:
		return 3
	}
}

// authorScore returns the scaled log author title count in [0, 1].
func authorScore(author string, schema *FeatureSchema) float64 {
	count := schema.AuthorCounts[author]
	if count <= 0 || schema.AuthorLogMax <= 0 {
		return 0
	}
	return clip01(math.Log1p(float64(count)) / schema.AuthorLogMax)
}

// minMax scales v into [0, 1] against fitted bounds, clipping outliers.
// Degenerate bounds map everything to the midpoint.
func minMax(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return clip01((v - lo) / (hi - lo))
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
