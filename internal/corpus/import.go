// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/Poojan38380/Book-Recommender/internal/logging"
)

// ImportCSV replaces the catalog with the contents of a CSV file.
// The import is a single transaction: readers see either the old
// catalog or the new one, never a partial state.
//
// Cleaning rules applied during import:
//   - rows without a title are dropped
//   - string fields are trimmed
//   - ratings outside [0, 5] are treated as missing (0)
//   - negative ratings counts clamp to 0
//   - exact duplicate (title, author) pairs keep the first occurrence
//
// Row ids are assigned 0..N-1 in source file order after cleaning.
// Columns missing from the file import as their zero value; only the
// title column is required.
func (s *Store) ImportCSV(ctx context.Context, csvPath string) (int, error) {
	// read_csv_auto takes a literal path; single quotes are escaped
	// because the driver cannot bind parameters inside table functions.
	quoted := strings.ReplaceAll(csvPath, "'", "''")

	_, err := s.conn.ExecContext(ctx, fmt.Sprintf(
		`CREATE OR REPLACE TEMP TABLE import_raw AS
		 SELECT row_number() OVER () AS src_order, *
		 FROM read_csv_auto('%s', header=true, ignore_errors=true)`, quoted))
	if err != nil {
		return 0, fmt.Errorf("read csv %s: %w", csvPath, err)
	}
	defer func() {
		_, _ = s.conn.ExecContext(ctx, "DROP TABLE IF EXISTS import_raw")
	}()

	columns, err := s.tableColumns(ctx, "import_raw")
	if err != nil {
		return 0, fmt.Errorf("inspect csv columns: %w", err)
	}
	if !columns["title"] {
		return 0, fmt.Errorf("csv %s has no title column", csvPath)
	}

	insertSQL := buildImportSQL(columns)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM books"); err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}

	res, err := tx.ExecContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("import rows: %w", err)
	}

	imported, err := res.RowsAffected()
	if err != nil {
		imported = -1
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	logging.Info().
		Str("component", "corpus").
		Str("path", csvPath).
		Int64("rows", imported).
		Msg("catalog imported")

	return int(imported), nil
}

// tableColumns returns the lowercased column names of a table.
func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE lower(table_name) = lower(?)", table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[strings.ToLower(name)] = true
	}
	return columns, rows.Err()
}

// buildImportSQL assembles the cleaning INSERT for the columns present
// in the source file. The goodreads-style catalog names the author
// column "authors"; both spellings are accepted.
func buildImportSQL(columns map[string]bool) string {
	authorExpr := "''"
	switch {
	case columns["authors"]:
		authorExpr = "coalesce(trim(CAST(authors AS VARCHAR)), '')"
	case columns["author"]:
		authorExpr = "coalesce(trim(CAST(author AS VARCHAR)), '')"
	}

	langExpr := "''"
	if columns["language_code"] {
		langExpr = "coalesce(trim(CAST(language_code AS VARCHAR)), '')"
	}

	ratingExpr := "0.0"
	if columns["average_rating"] {
		ratingExpr = `CASE
			WHEN TRY_CAST(average_rating AS DOUBLE) IS NULL THEN 0
			WHEN TRY_CAST(average_rating AS DOUBLE) < 0 THEN 0
			WHEN TRY_CAST(average_rating AS DOUBLE) > 5 THEN 0
			ELSE TRY_CAST(average_rating AS DOUBLE)
		END`
	}

	countExpr := "0"
	if columns["ratings_count"] {
		countExpr = "greatest(coalesce(TRY_CAST(ratings_count AS BIGINT), 0), 0)"
	}

	// Publication year comes from a year column when present, otherwise
	// from the trailing year of a goodreads m/d/yyyy publication_date.
	yearExpr := "0"
	switch {
	case columns["publication_year"]:
		yearExpr = "coalesce(TRY_CAST(publication_year AS INTEGER), 0)"
	case columns["publication_date"]:
		// The year is the trailing token of a m/d/yyyy string, or the
		// leading token when the column was inferred as a DATE.
		yearExpr = `coalesce(
			TRY_CAST(right(trim(CAST(publication_date AS VARCHAR)), 4) AS INTEGER),
			TRY_CAST(left(trim(CAST(publication_date AS VARCHAR)), 4) AS INTEGER),
			0)`
	}

	reviewExpr := "''"
	if columns["review_sample"] {
		reviewExpr = "coalesce(CAST(review_sample AS VARCHAR), '')"
	}

	// The dedupe runs in a subquery: QUALIFY filters after window
	// evaluation, so assigning row ids in the same scope would leave
	// gaps where duplicates were dropped.
	return fmt.Sprintf(`
		INSERT INTO books
		SELECT row_number() OVER (ORDER BY src_order) - 1 AS row_id,
		       title, author, language_code, average_rating,
		       ratings_count, publication_year, review_sample
		FROM (
			SELECT src_order,
			       trim(CAST(title AS VARCHAR)) AS title,
			       %s AS author,
			       %s AS language_code,
			       %s AS average_rating,
			       %s AS ratings_count,
			       %s AS publication_year,
			       %s AS review_sample
			FROM import_raw
			WHERE title IS NOT NULL AND trim(CAST(title AS VARCHAR)) <> ''
			QUALIFY row_number() OVER (
				PARTITION BY lower(trim(CAST(title AS VARCHAR))), lower(%s)
				ORDER BY src_order
			) = 1
		)`,
		authorExpr, langExpr, ratingExpr, countExpr, yearExpr, reviewExpr, authorExpr)
}
