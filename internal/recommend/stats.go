// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"math"
	"sort"
)

// CorpusStatistics holds aggregates computed once over the whole corpus.
// They are recomputed from scratch whenever the corpus changes, never
// mutated incrementally. The schema freezes the subset of these values
// needed at query time; the statistics themselves are not persisted.
type CorpusStatistics struct {
	// Count is the number of records in the corpus.
	Count int

	// MeanRating is the mean of all present average ratings, used as
	// the neutral substitute for missing ratings.
	MeanRating float64

	// RatingMin and RatingMax are the observed rating bounds.
	RatingMin float64
	RatingMax float64

	// AuthorCounts maps author name to the number of corpus titles.
	AuthorCounts map[string]int

	// MaxAuthorCount is the largest per-author title count.
	MaxAuthorCount int

	// LanguageFreq maps language code to its corpus frequency.
	LanguageFreq map[string]int

	// sortedLogPopularity holds log1p(ratings_count) for every record,
	// ascending, for percentile bound lookups.
	sortedLogPopularity []float64
}

// ComputeStats derives corpus statistics from the full record set.
func ComputeStats(records []BookRecord) *CorpusStatistics {
	stats := &CorpusStatistics{
		Count:        len(records),
		AuthorCounts: make(map[string]int),
		LanguageFreq: make(map[string]int),
		RatingMin:    math.Inf(1),
		RatingMax:    math.Inf(-1),
	}

	ratingSum := 0.0
	ratingN := 0
	stats.sortedLogPopularity = make([]float64, 0, len(records))

	for i := range records {
		r := &records[i]

		if r.AverageRating > 0 {
			ratingSum += r.AverageRating
			ratingN++
			if r.AverageRating < stats.RatingMin {
				stats.RatingMin = r.AverageRating
			}
			if r.AverageRating > stats.RatingMax {
				stats.RatingMax = r.AverageRating
			}
		}

		if r.Author != "" {
			stats.AuthorCounts[r.Author]++
		}
		if r.LanguageCode != "" {
			stats.LanguageFreq[r.LanguageCode]++
		}

		stats.sortedLogPopularity = append(stats.sortedLogPopularity, math.Log1p(float64(r.RatingsCount)))
	}

	if ratingN > 0 {
		stats.MeanRating = ratingSum / float64(ratingN)
	} else {
		// No ratings at all: mid-scale neutral, full 0-5 bounds.
		stats.MeanRating = 2.5
		stats.RatingMin = 0
		stats.RatingMax = 5
	}

	for _, n := range stats.AuthorCounts {
		if n > stats.MaxAuthorCount {
			stats.MaxAuthorCount = n
		}
	}

	sort.Float64s(stats.sortedLogPopularity)

	return stats
}

// PopularityBounds returns the [1-p, p] percentile bounds of
// log1p(ratings_count) over the corpus. Values outside the band clip
// to [0, 1] during scaling rather than extrapolate.
func (s *CorpusStatistics) PopularityBounds(p float64) (lo, hi float64) {
	n := len(s.sortedLogPopularity)
	if n == 0 {
		return 0, 0
	}

	lo = s.percentile(1 - p)
	hi = s.percentile(p)
	return lo, hi
}

// percentile returns the nearest-rank percentile of the sorted
// log-popularity values. The epsilon keeps float noise in p (e.g.
// 1-0.95 = 0.05000000000000004) from bumping the rank.
func (s *CorpusStatistics) percentile(p float64) float64 {
	n := len(s.sortedLogPopularity)
	idx := int(math.Ceil(p*float64(n)-1e-9)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return s.sortedLogPopularity[idx]
}

// TopLanguages returns the k most frequent language codes, ordered by
// descending frequency with alphabetical tie-break for determinism.
// Returns fewer than k when the corpus has fewer distinct languages.
func (s *CorpusStatistics) TopLanguages(k int) []string {
	codes := make([]string, 0, len(s.LanguageFreq))
	for code := range s.LanguageFreq {
		codes = append(codes, code)
	}

	sort.Slice(codes, func(i, j int) bool {
		fi, fj := s.LanguageFreq[codes[i]], s.LanguageFreq[codes[j]]
		if fi != fj {
			return fi > fj
		}
		return codes[i] < codes[j]
	})

	if len(codes) > k {
		codes = codes[:k]
	}
	return codes
}
