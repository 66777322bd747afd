// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Poojan38380/Book-Recommender/internal/recommend"
)

// Records returns every catalog record ordered by ascending row id.
// Record index i always holds row id i, matching the feature matrix
// row layout the engine trains on.
func (s *Store) Records(ctx context.Context) ([]recommend.BookRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT row_id, title, author, language_code, average_rating,
		       ratings_count, publication_year, review_sample
		FROM books
		ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []recommend.BookRecord
	for rows.Next() {
		var r recommend.BookRecord
		if err := rows.Scan(&r.Row, &r.Title, &r.Author, &r.LanguageCode,
			&r.AverageRating, &r.RatingsCount, &r.PublicationYear, &r.ReviewSample); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if r.Row != len(records) {
			return nil, fmt.Errorf("catalog row ids not contiguous: got %d at position %d", r.Row, len(records))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}

	return records, nil
}

// Count returns the catalog size.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, "SELECT count(*) FROM books").Scan(&count); err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return count, nil
}

// Fingerprint digests the catalog identity columns in row order.
// Any change to titles, authors, or row assignment produces a new
// fingerprint, which invalidates persisted models trained on the old
// catalog.
func (s *Store) Fingerprint(ctx context.Context) (string, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT title, author FROM books ORDER BY row_id")
	if err != nil {
		return "", fmt.Errorf("query catalog identity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	h := sha256.New()
	count := 0
	for rows.Next() {
		var title, author string
		if err := rows.Scan(&title, &author); err != nil {
			return "", fmt.Errorf("scan catalog identity: %w", err)
		}
		h.Write([]byte(title))
		h.Write([]byte{0x1f})
		h.Write([]byte(author))
		h.Write([]byte{0x1e})
		count++
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate catalog identity: %w", err)
	}

	fmt.Fprintf(h, "n=%d", count)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// interface guard
var _ recommend.CorpusProvider = (*Store)(nil)
