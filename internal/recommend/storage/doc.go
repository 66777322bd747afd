// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package storage persists trained recommendation models.
//
// Models are gob-encoded, gzip-compressed, and written under versioned
// filenames ({name}_v{version}.gob.gz). Every file embeds self-describing
// metadata (schema name, vector dimension, corpus fingerprint) plus a
// SHA-256 checksum, so a load can detect both corruption and a model
// built by an incompatible vectorizer generation.
//
// Writes go to a temporary file in the same directory followed by an
// atomic rename, so a crash mid-write never leaves a truncated file
// visible under the final name.
package storage
