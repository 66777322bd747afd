// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// Neighbor is one KNN result: a corpus row and its cosine distance
// from the query vector.
type Neighbor struct {
	// Row is the corpus row index.
	Row int

	// Distance is the cosine distance in [0, 2].
	Distance float64
}

// SimilarityIndex answers exact k-nearest-neighbor queries by cosine
// distance over the corpus feature matrix. Brute force over all rows:
// deterministic and reproducible for a fixed matrix, no approximation.
//
// The index is immutable after construction and safe for concurrent
// queries.
type SimilarityIndex struct {
	matrix [][]float64
	norms  []float64
	dim    int
}

// TrainIndex builds an index over the matrix. The matrix must be
// rectangular and non-empty; the index keeps a reference to it, so the
// caller must not mutate rows afterwards.
func TrainIndex(matrix [][]float64) (*SimilarityIndex, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("train index: empty matrix")
	}

	dim := len(matrix[0])
	if dim == 0 {
		return nil, fmt.Errorf("train index: zero-dimension rows")
	}

	norms := make([]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != dim {
			return nil, fmt.Errorf("train index: row %d has %d components, want %d", i, len(row), dim)
		}
		norms[i] = vectorNorm(row)
	}

	return &SimilarityIndex{
		matrix: matrix,
		norms:  norms,
		dim:    dim,
	}, nil
}

// Size returns the number of indexed rows.
func (ix *SimilarityIndex) Size() int {
	return len(ix.matrix)
}

// Dim returns the indexed vector dimension.
func (ix *SimilarityIndex) Dim() int {
	return ix.dim
}

// Query returns the k nearest rows to the vector, ascending by
// distance with ascending row index as tie-break. Requesting more
// neighbors than indexed rows returns all rows.
func (ix *SimilarityIndex) Query(vec []float64, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("query vector has %d components, index has %d: %w", len(vec), ix.dim, ErrDimensionMismatch)
	}

	return ix.nearest(vec, vectorNorm(vec), k, -1), nil
}

// QueryByRow returns the k nearest rows to an indexed row, excluding
// the row itself.
func (ix *SimilarityIndex) QueryByRow(row, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if row < 0 || row >= len(ix.matrix) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, len(ix.matrix))
	}

	return ix.nearest(ix.matrix[row], ix.norms[row], k, row), nil
}

// nearest scans all rows and returns the k smallest distances.
// excludeRow is skipped when >= 0.
func (ix *SimilarityIndex) nearest(vec []float64, norm float64, k, excludeRow int) []Neighbor {
	neighbors := make([]Neighbor, 0, len(ix.matrix))

	for i, row := range ix.matrix {
		if i == excludeRow {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Row:      i,
			Distance: cosineDistance(vec, norm, row, ix.norms[i]),
		})
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Distance != neighbors[b].Distance {
			return neighbors[a].Distance < neighbors[b].Distance
		}
		return neighbors[a].Row < neighbors[b].Row
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// Similarity converts a cosine distance in [0, 2] to a similarity
// score in [0, 1]: distance 0 maps to 1, distance 2 to 0, distance 1
// to exactly 0.5, monotonically decreasing throughout.
func Similarity(distance float64) float64 {
	return clip01((2 - distance) / 2)
}

// cosineDistance is 1 - cosine similarity, range [0, 2]. A zero-norm
// vector is treated as orthogonal to everything (distance 1), keeping
// results deterministic.
func cosineDistance(a []float64, normA float64, b []float64, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}

	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}

	d := 1 - dot/(normA*normB)
	// Floating point can land a hair outside [0, 2].
	if d < 0 {
		return 0
	}
	if d > 2 {
		return 2
	}
	return d
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
