// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package corpus owns the book catalog: a DuckDB-backed store that
// imports the source CSV, assigns stable ascending row ids, and serves
// ordered record snapshots to the recommendation engine.
//
// Row ids are the only join key between the catalog and a trained
// feature matrix, so the corpus is read-only between imports and every
// import is an atomic full replacement. The Fingerprint method lets
// the engine detect a rebuilt catalog and discard stale models.
//
// Key dependencies:
//   - github.com/duckdb/duckdb-go/v2: DuckDB driver (CGO-based)
package corpus
