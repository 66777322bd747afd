// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package sentiment scores review text with a small binary classifier.
//
// The classifier is a multinomial naive Bayes model over unigram
// counts, trained once on a fixed labeled sample and persisted as a
// single blob so the fitted model and its text transform load as one
// unit: either the whole scorer is available or none of it is.
package sentiment

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"
)

// ErrUnavailable means the classifier is not loaded. Callers must
// treat every score request against an unavailable scorer as a
// failure, never as a neutral score.
var ErrUnavailable = errors.New("sentiment classifier unavailable")

// Label marks a training sample as positive or negative.
type Label int

const (
	// Negative marks an unfavorable review sample.
	Negative Label = iota
	// Positive marks a favorable review sample.
	Positive
)

// Sample is one labeled training text.
type Sample struct {
	Text  string
	Label Label
}

// Model is the fitted classifier state: the frozen vocabulary and the
// smoothed log-likelihoods per term and class. Vocabulary order is
// deterministic (sorted terms) so two fits over the same sample
// produce identical models.
type Model struct {
	// Vocabulary maps term to its index in the likelihood slices.
	Vocabulary map[string]int

	// LogPriorPos and LogPriorNeg are the class log-priors.
	LogPriorPos float64
	LogPriorNeg float64

	// LogLikePos and LogLikeNeg are Laplace-smoothed per-term
	// log-likelihoods, indexed by vocabulary position.
	LogLikePos []float64
	LogLikeNeg []float64

	// SampleCount is the number of training samples the model saw.
	SampleCount int
}

// Scorer exposes sentiment scoring backed by an atomically swapped
// Model. Safe for concurrent use; a Scorer without a model returns
// ErrUnavailable from every scoring call.
type Scorer struct {
	model atomic.Pointer[Model]
}

// NewScorer returns a scorer with no model loaded.
func NewScorer() *Scorer {
	return &Scorer{}
}

// SetModel installs a fitted model. Passing nil unloads the scorer.
func (s *Scorer) SetModel(m *Model) {
	s.model.Store(m)
}

// Available reports whether a model is loaded.
func (s *Scorer) Available() bool {
	return s.model.Load() != nil
}

// Score returns the probability in [0, 1] that the text is positive.
// Text with no recognized terms scores the neutral 0.5; only a missing
// model is an error.
func (s *Scorer) Score(text string) (float64, error) {
	m := s.model.Load()
	if m == nil {
		return 0, ErrUnavailable
	}
	return m.score(text), nil
}

// ScoreMany scores texts in order, one result per input.
func (s *Scorer) ScoreMany(texts []string) ([]float64, error) {
	m := s.model.Load()
	if m == nil {
		return nil, ErrUnavailable
	}

	scores := make([]float64, len(texts))
	for i, t := range texts {
		scores[i] = m.score(t)
	}
	return scores, nil
}

// Train fits a naive Bayes model on the labeled samples.
func Train(samples []Sample) (*Model, error) {
	if len(samples) == 0 {
		return nil, errors.New("no training samples")
	}

	posDocs, negDocs := 0, 0
	posCounts := make(map[string]int)
	negCounts := make(map[string]int)
	vocabSet := make(map[string]struct{})

	for _, sample := range samples {
		tokens := tokenize(sample.Text)
		if sample.Label == Positive {
			posDocs++
		} else {
			negDocs++
		}
		for _, tok := range tokens {
			vocabSet[tok] = struct{}{}
			if sample.Label == Positive {
				posCounts[tok]++
			} else {
				negCounts[tok]++
			}
		}
	}

	if posDocs == 0 || negDocs == 0 {
		return nil, errors.New("training sample must contain both classes")
	}

	terms := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	posTotal, negTotal := 0, 0
	for _, n := range posCounts {
		posTotal += n
	}
	for _, n := range negCounts {
		negTotal += n
	}

	m := &Model{
		Vocabulary:  vocab,
		LogPriorPos: math.Log(float64(posDocs) / float64(len(samples))),
		LogPriorNeg: math.Log(float64(negDocs) / float64(len(samples))),
		LogLikePos:  make([]float64, len(terms)),
		LogLikeNeg:  make([]float64, len(terms)),
		SampleCount: len(samples),
	}

	// Laplace smoothing with alpha=1.
	v := float64(len(terms))
	for i, t := range terms {
		m.LogLikePos[i] = math.Log(float64(posCounts[t]+1) / (float64(posTotal) + v))
		m.LogLikeNeg[i] = math.Log(float64(negCounts[t]+1) / (float64(negTotal) + v))
	}

	return m, nil
}

// score computes the positive-class posterior for one text.
func (m *Model) score(text string) float64 {
	tokens := tokenize(text)

	logPos := m.LogPriorPos
	logNeg := m.LogPriorNeg
	known := 0

	for _, tok := range tokens {
		idx, ok := m.Vocabulary[tok]
		if !ok {
			continue
		}
		known++
		logPos += m.LogLikePos[idx]
		logNeg += m.LogLikeNeg[idx]
	}

	// No recognized terms carries no signal either way.
	if known == 0 {
		return 0.5
	}

	// Posterior via the log-sum-exp trick to avoid underflow.
	maxLog := math.Max(logPos, logNeg)
	pos := math.Exp(logPos - maxLog)
	neg := math.Exp(logNeg - maxLog)
	return pos / (pos + neg)
}

// tokenize lowercases and splits on non-letter runs, dropping
// single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
