// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package recommend implements content-based book recommendations.
//
// Each book is mapped to a fixed-length normalized feature vector built
// from its rating, popularity, language, author frequency, and review
// sentiment. Recommendations are exact k-nearest-neighbor lookups over
// the corpus matrix by cosine distance.
//
// # Architecture
//
//   - FeatureSchema: frozen scaling bounds and language buckets fitted
//     once per training run; a vector is only comparable to vectors
//     built from the identical schema.
//   - Vectorizer: pure record-to-vector construction against a schema.
//   - SimilarityIndex: brute-force cosine KNN over the corpus matrix.
//   - Engine: model lifecycle (load, train advanced, fall back to the
//     reduced schema, persist, atomic swap) and the query operations.
//
// The package has no dependencies on other internal packages; the
// CorpusProvider and SentimentScorer interfaces keep the corpus store
// and the classifier pluggable without circular imports.
package recommend
