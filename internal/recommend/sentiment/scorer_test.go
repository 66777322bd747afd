// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package sentiment

import (
	"errors"
	"math"
	"testing"
)

func trainedScorer(t *testing.T) *Scorer {
	t.Helper()

	model, err := Train(TrainingSamples())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	s := NewScorer()
	s.SetModel(model)
	return s
}

func TestTrainRejectsBadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []Sample
	}{
		{"empty", nil},
		{"single class", []Sample{
			{Text: "great wonderful", Label: Positive},
			{Text: "lovely amazing", Label: Positive},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Train(tt.samples); err == nil {
				t.Error("expected training to fail")
			}
		})
	}
}

func TestScorePolarity(t *testing.T) {
	t.Parallel()

	s := trainedScorer(t)

	tests := []struct {
		name     string
		text     string
		positive bool
	}{
		{"favorable", "a wonderful brilliant masterpiece, loved the characters", true},
		{"unfavorable", "boring tedious slog, dull and disappointing waste of time", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			score, err := s.Score(tt.text)
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if score < 0 || score > 1 {
				t.Errorf("score %f outside [0, 1]", score)
			}
			if tt.positive && score <= 0.5 {
				t.Errorf("expected positive score > 0.5, got %f", score)
			}
			if !tt.positive && score >= 0.5 {
				t.Errorf("expected negative score < 0.5, got %f", score)
			}
		})
	}
}

func TestScoreNeutralForUnknownText(t *testing.T) {
	t.Parallel()

	s := trainedScorer(t)

	for _, text := range []string{"", "   ", "zzzqqq xyxyxy", "12345 !!!"} {
		score, err := s.Score(text)
		if err != nil {
			t.Fatalf("Score(%q) failed: %v", text, err)
		}
		if score != 0.5 {
			t.Errorf("Score(%q) = %f, want neutral 0.5", text, score)
		}
	}
}

func TestScoreManyOrderPreserving(t *testing.T) {
	t.Parallel()

	s := trainedScorer(t)

	texts := []string{
		"wonderful brilliant story",
		"terrible boring mess",
		"",
	}

	scores, err := s.ScoreMany(texts)
	if err != nil {
		t.Fatalf("ScoreMany failed: %v", err)
	}
	if len(scores) != len(texts) {
		t.Fatalf("got %d scores for %d texts", len(scores), len(texts))
	}

	// Each batch entry must match the single-text result.
	for i, text := range texts {
		single, err := s.Score(text)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if scores[i] != single {
			t.Errorf("scores[%d] = %f, Score gave %f", i, scores[i], single)
		}
	}
}

func TestUnavailableScorer(t *testing.T) {
	t.Parallel()

	s := NewScorer()

	if s.Available() {
		t.Error("expected scorer without model to be unavailable")
	}
	if _, err := s.Score("anything"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Score error = %v, want ErrUnavailable", err)
	}
	if _, err := s.ScoreMany([]string{"a", "b"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ScoreMany error = %v, want ErrUnavailable", err)
	}
}

func TestTrainDeterministic(t *testing.T) {
	t.Parallel()

	m1, err := Train(TrainingSamples())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	m2, err := Train(TrainingSamples())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if len(m1.Vocabulary) != len(m2.Vocabulary) {
		t.Fatalf("vocabulary sizes differ: %d vs %d", len(m1.Vocabulary), len(m2.Vocabulary))
	}
	for term, idx := range m1.Vocabulary {
		if m2.Vocabulary[term] != idx {
			t.Fatalf("term %q has index %d vs %d", term, idx, m2.Vocabulary[term])
		}
	}
	for i := range m1.LogLikePos {
		if math.Abs(m1.LogLikePos[i]-m2.LogLikePos[i]) > 1e-12 {
			t.Fatalf("log-likelihoods differ at %d", i)
		}
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"a b c", nil},
		{"well-written book", []string{"well", "written", "book"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := tokenize(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
