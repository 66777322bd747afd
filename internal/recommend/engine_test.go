// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Poojan38380/Book-Recommender/internal/logging"
	"github.com/Poojan38380/Book-Recommender/internal/recommend/storage"
)

// fakeCorpus is an in-memory CorpusProvider.
type fakeCorpus struct {
	records     []BookRecord
	fingerprint string
	err         error
}

func (c *fakeCorpus) Records(context.Context) ([]BookRecord, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}

func (c *fakeCorpus) Count(context.Context) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return len(c.records), nil
}

func (c *fakeCorpus) Fingerprint(context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.fingerprint, nil
}

func engineCorpus() *fakeCorpus {
	records := []BookRecord{
		{Row: 0, Title: "The Fellowship of the Ring", Author: "Tolkien", LanguageCode: "eng", AverageRating: 4.4, RatingsCount: 9000, ReviewSample: "wonderful"},
		{Row: 1, Title: "The Two Towers", Author: "Tolkien", LanguageCode: "eng", AverageRating: 4.4, RatingsCount: 8000, ReviewSample: "brilliant"},
		{Row: 2, Title: "The Return of the King", Author: "Tolkien", LanguageCode: "eng", AverageRating: 4.5, RatingsCount: 8500, ReviewSample: "amazing"},
		{Row: 3, Title: "Don Quixote", Author: "Cervantes", LanguageCode: "spa", AverageRating: 3.9, RatingsCount: 3000, ReviewSample: "classic"},
		{Row: 4, Title: "Madame Bovary", Author: "Flaubert", LanguageCode: "fre", AverageRating: 3.7, RatingsCount: 2500, ReviewSample: "tragic"},
		{Row: 5, Title: "War and Peace", Author: "Tolstoy", LanguageCode: "rus", AverageRating: 4.1, RatingsCount: 4000, ReviewSample: "epic"},
		{Row: 6, Title: "Anna Karenina", Author: "Tolstoy", LanguageCode: "rus", AverageRating: 4.0, RatingsCount: 3800, ReviewSample: "moving"},
		{Row: 7, Title: "The Trial", Author: "Kafka", LanguageCode: "ger", AverageRating: 3.9, RatingsCount: 1800, ReviewSample: "unsettling"},
		{Row: 8, Title: "Obscure Pamphlet", Author: "Unknown Hand", LanguageCode: "", AverageRating: 0, RatingsCount: 2, ReviewSample: ""},
		{Row: 9, Title: "The Hobbit", Author: "Tolkien", LanguageCode: "eng", AverageRating: 4.3, RatingsCount: 9500, ReviewSample: "delightful"},
	}
	return &fakeCorpus{records: records, fingerprint: "corpus-v1"}
}

type engineOptions struct {
	corpus *fakeCorpus
	scorer SentimentScorer
	dir    string
	config *Config
}

func newTestEngine(t *testing.T, opts engineOptions) *Engine {
	t.Helper()

	if opts.corpus == nil {
		opts.corpus = engineCorpus()
	}
	if opts.dir == "" {
		opts.dir = t.TempDir()
	}
	if opts.config == nil {
		opts.config = DefaultConfig()
	}

	store, err := storage.NewStore(opts.dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	engine, err := NewEngine(opts.config, opts.corpus, opts.scorer, store, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	logger := logging.NewTestLogger(io.Discard)

	if _, err := NewEngine(nil, nil, nil, store, logger); err == nil {
		t.Error("expected error for nil corpus")
	}
	if _, err := NewEngine(nil, engineCorpus(), nil, nil, logger); err == nil {
		t.Error("expected error for nil store")
	}

	bad := DefaultConfig()
	bad.Limits.DefaultK = 0
	if _, err := NewEngine(bad, engineCorpus(), nil, store, logger); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEnsureReadyTrainsAdvanced(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}})

	if err := e.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	status := e.Status()
	if status.State != StateReady.String() {
		t.Errorf("state = %q, want ready", status.State)
	}
	if status.SchemaName != SchemaAdvanced {
		t.Errorf("schema = %q, want advanced", status.SchemaName)
	}
	if status.Fallback {
		t.Error("working scorer must not produce a fallback model")
	}
	if status.CorpusSize != 10 {
		t.Errorf("corpus size = %d, want 10", status.CorpusSize)
	}
	if status.ModelVersion != 1 {
		t.Errorf("model version = %d, want 1", status.ModelVersion)
	}

	// Second call is a no-op.
	if err := e.EnsureReady(context.Background()); err != nil {
		t.Fatalf("second EnsureReady failed: %v", err)
	}
}

func TestTrainingFallsBackOnScorerFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scorer SentimentScorer
	}{
		{"nil scorer", nil},
		{"failing scorer", &stubScorer{err: fmt.Errorf("classifier gone")}},
		{"short batch scorer", &stubScorer{score: 0.5, short: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine(t, engineOptions{scorer: tt.scorer})

			if err := e.EnsureReady(context.Background()); err != nil {
				t.Fatalf("EnsureReady failed: %v", err)
			}

			status := e.Status()
			if status.State != StateReady.String() {
				t.Errorf("state = %q, want ready", status.State)
			}
			if !status.Fallback {
				t.Error("expected a fallback model")
			}
			if status.SchemaName != SchemaFallback {
				t.Errorf("schema = %q, want fallback", status.SchemaName)
			}

			// Queries work against the reduced model.
			results, err := e.RecommendByTitle(context.Background(), "The Hobbit", 3)
			if err != nil {
				t.Fatalf("RecommendByTitle failed: %v", err)
			}
			if len(results) != 3 {
				t.Errorf("got %d results, want 3", len(results))
			}
		})
	}
}

func TestTrainingFailsOnSmallCorpus(t *testing.T) {
	t.Parallel()

	corpus := &fakeCorpus{
		records: []BookRecord{
			{Row: 0, Title: "Lonely", AverageRating: 4.0},
		},
		fingerprint: "tiny",
	}
	e := newTestEngine(t, engineOptions{corpus: corpus})

	err := e.EnsureReady(context.Background())
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
	if !errors.Is(err, ErrCorpusTooSmall) {
		t.Errorf("error = %v, want ErrCorpusTooSmall in chain", err)
	}

	status := e.Status()
	if status.State != StateFailed.String() {
		t.Errorf("state = %q, want failed", status.State)
	}
	if status.LastError == "" {
		t.Error("expected last error to be recorded")
	}

	if _, err := e.RecommendByTitle(context.Background(), "Lonely", 1); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("query error = %v, want ErrModelUnavailable", err)
	}
}

func TestPersistedModelReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	corpus := engineCorpus()
	scorer := &stubScorer{score: 0.6}
	ctx := context.Background()

	first := newTestEngine(t, engineOptions{corpus: corpus, scorer: scorer, dir: dir})
	if err := first.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}
	wantResults, err := first.RecommendByTitle(ctx, "The Hobbit", 5)
	if err != nil {
		t.Fatalf("RecommendByTitle failed: %v", err)
	}

	// A second engine over the same store and corpus must load, not
	// retrain: version stays at 1 and queries are identical.
	second := newTestEngine(t, engineOptions{corpus: corpus, scorer: scorer, dir: dir})
	if err := second.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady after reload failed: %v", err)
	}
	if v := second.Status().ModelVersion; v != 1 {
		t.Errorf("model version after reload = %d, want 1", v)
	}

	gotResults, err := second.RecommendByTitle(ctx, "The Hobbit", 5)
	if err != nil {
		t.Fatalf("RecommendByTitle after reload failed: %v", err)
	}
	if len(gotResults) != len(wantResults) {
		t.Fatalf("got %d results, want %d", len(gotResults), len(wantResults))
	}
	for i := range gotResults {
		if gotResults[i].Row != wantResults[i].Row {
			t.Errorf("result %d row = %d, want %d", i, gotResults[i].Row, wantResults[i].Row)
		}
		if gotResults[i].Similarity != wantResults[i].Similarity {
			t.Errorf("result %d similarity = %f, want %f", i, gotResults[i].Similarity, wantResults[i].Similarity)
		}
	}
}

func TestChangedCorpusForcesRetrain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scorer := &stubScorer{score: 0.6}
	ctx := context.Background()

	first := newTestEngine(t, engineOptions{corpus: engineCorpus(), scorer: scorer, dir: dir})
	if err := first.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	// Same store, different corpus fingerprint: the persisted model no
	// longer joins to the corpus and must be rejected on load.
	changed := engineCorpus()
	changed.fingerprint = "corpus-v2"

	second := newTestEngine(t, engineOptions{corpus: changed, scorer: scorer, dir: dir})
	if err := second.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}
	if v := second.Status().ModelVersion; v != 2 {
		t.Errorf("model version = %d, want retrained version 2", v)
	}
}

func TestRecommendByTitleLookup(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}})
	ctx := context.Background()
	if err := e.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	tests := []struct {
		name  string
		title string
	}{
		{"exact", "The Hobbit"},
		{"case insensitive", "the hobbit"},
		{"extra whitespace", "  The   Hobbit "},
		{"substring", "hobbit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.RecommendByTitle(ctx, tt.title, 3)
			if err != nil {
				t.Fatalf("RecommendByTitle(%q) failed: %v", tt.title, err)
			}
			if len(results) != 3 {
				t.Fatalf("got %d results, want 3", len(results))
			}
			// The query book never recommends itself.
			for _, r := range results {
				if r.Row == 9 {
					t.Errorf("query book present in its own results")
				}
				if r.Similarity < 0 || r.Similarity > 1 {
					t.Errorf("similarity %f outside [0, 1]", r.Similarity)
				}
			}
			// Descending similarity order.
			for i := 1; i < len(results); i++ {
				if results[i].Similarity > results[i-1].Similarity {
					t.Errorf("results not sorted by similarity at %d", i)
				}
			}
		})
	}

	t.Run("not found", func(t *testing.T) {
		_, err := e.RecommendByTitle(ctx, "No Such Book Anywhere", 3)
		if !errors.Is(err, ErrTitleNotFound) {
			t.Errorf("error = %v, want ErrTitleNotFound", err)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := e.RecommendByTitle(ctx, "   ", 3)
		if !errors.Is(err, ErrTitleNotFound) {
			t.Errorf("error = %v, want ErrTitleNotFound", err)
		}
	})

	t.Run("ambiguous prefers first row", func(t *testing.T) {
		// "the" is a substring of several titles; the earliest corpus
		// row must win.
		results, err := e.RecommendByTitle(ctx, "the two", 1)
		if err != nil {
			t.Fatalf("RecommendByTitle failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results", len(results))
		}
	})
}

func TestRecommendKLimits(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Limits.DefaultK = 2
	cfg.Limits.MaxK = 4

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}, config: cfg})
	ctx := context.Background()
	if err := e.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	// k=0 applies the default.
	results, err := e.RecommendByTitle(ctx, "The Hobbit", 0)
	if err != nil {
		t.Fatalf("RecommendByTitle failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("default k returned %d results, want 2", len(results))
	}

	// Oversized k clamps to the maximum.
	results, err = e.RecommendByTitle(ctx, "The Hobbit", 100)
	if err != nil {
		t.Fatalf("RecommendByTitle failed: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("clamped k returned %d results, want 4", len(results))
	}

	// Negative k is rejected.
	if _, err := e.RecommendByTitle(ctx, "The Hobbit", -1); !errors.Is(err, ErrInvalidK) {
		t.Errorf("error = %v, want ErrInvalidK", err)
	}
}

func TestRecommendByVector(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}})
	ctx := context.Background()
	if err := e.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	dim := e.Dimension()
	if dim == 0 {
		t.Fatal("serving model has zero dimension")
	}

	vec := make([]float64, dim)
	vec[0] = 1

	results, err := e.RecommendByVector(ctx, vec, 5)
	if err != nil {
		t.Fatalf("RecommendByVector failed: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("got %d results, want 5", len(results))
	}

	// A wrong-length vector is a hard error, never padded or truncated.
	if _, err := e.RecommendByVector(ctx, make([]float64, dim+1), 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := e.RecommendByVector(ctx, nil, 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("nil vector error = %v, want ErrDimensionMismatch", err)
	}
}

func TestForceRetrainThrottled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Training.RetrainMinInterval = time.Hour

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}, config: cfg})
	ctx := context.Background()

	if err := e.ForceRetrain(ctx); err != nil {
		t.Fatalf("first ForceRetrain failed: %v", err)
	}
	if err := e.ForceRetrain(ctx); !errors.Is(err, ErrRetrainThrottled) {
		t.Errorf("error = %v, want ErrRetrainThrottled", err)
	}

	// The model trained by the first call keeps serving.
	if _, err := e.RecommendByTitle(ctx, "The Hobbit", 1); err != nil {
		t.Errorf("query after throttled retrain failed: %v", err)
	}
}

func TestForceRetrainRejectedByLockKeepsBudget(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Training.RetrainMinInterval = time.Hour

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}, config: cfg})
	ctx := context.Background()

	// Simulate a training run holding the writer lock.
	e.trainMu.Lock()
	if err := e.ForceRetrain(ctx); !errors.Is(err, ErrTrainingInProgress) {
		t.Fatalf("error = %v, want ErrTrainingInProgress", err)
	}
	e.trainMu.Unlock()

	// The rejected request must not have consumed the retrain budget.
	if err := e.ForceRetrain(ctx); err != nil {
		t.Errorf("ForceRetrain after lock rejection failed: %v", err)
	}
}

func TestFailedRetrainKeepsServingModel(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Training.RetrainMinInterval = 0

	corpus := engineCorpus()
	e := newTestEngine(t, engineOptions{corpus: corpus, scorer: &stubScorer{score: 0.6}, config: cfg})
	ctx := context.Background()

	if err := e.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}

	corpus.err = errors.New("catalog offline")
	err := e.ForceRetrain(ctx)
	if err == nil {
		t.Fatal("ForceRetrain succeeded with a failing corpus")
	}
	if errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, must not be ErrModelUnavailable while a model serves", err)
	}

	status := e.Status()
	if status.State != StateReady.String() {
		t.Errorf("state = %q, want ready", status.State)
	}
	if _, err := e.RecommendByTitle(ctx, "The Hobbit", 1); err != nil {
		t.Errorf("query after failed retrain: %v", err)
	}
}

func TestRetrainIncrementsVersion(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Training.RetrainMinInterval = 0

	e := newTestEngine(t, engineOptions{scorer: &stubScorer{score: 0.6}, config: cfg})
	ctx := context.Background()

	if err := e.EnsureReady(ctx); err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}
	if err := e.Retrain(ctx); err != nil {
		t.Fatalf("Retrain failed: %v", err)
	}

	if v := e.Status().ModelVersion; v != 2 {
		t.Errorf("model version = %d, want 2", v)
	}
}

func TestStatusBeforeInit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, engineOptions{})

	status := e.Status()
	if status.State != StateUninitialized.String() {
		t.Errorf("state = %q, want uninitialized", status.State)
	}
	if status.SchemaName != "" || status.CorpusSize != 0 {
		t.Error("expected empty model fields before initialization")
	}
	if e.Dimension() != 0 {
		t.Errorf("Dimension = %d, want 0", e.Dimension())
	}
}

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"The Hobbit", "the hobbit"},
		{"  The   Hobbit ", "the hobbit"},
		{"WAR AND PEACE", "war and peace"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := normalizeTitle(tt.input); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
