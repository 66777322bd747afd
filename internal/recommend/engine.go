// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Poojan38380/Book-Recommender/internal/recommend/storage"
)

// modelName is the persisted model identity in the store.
const modelName = "book_knn"

// TrainedModel is one immutable generation of trained state: the
// feature matrix, the fitted index over it, the schema the vectors
// were built with, and the corpus snapshot it joins back to.
//
// Readers obtain it via an atomic pointer; it is never mutated after
// construction.
type TrainedModel struct {
	Schema      *FeatureSchema
	Matrix      [][]float64
	Records     []BookRecord
	Index       *SimilarityIndex
	Fingerprint string
	Version     int
	TrainedAt   time.Time
	Fallback    bool

	// normTitles[i] is the normalized title of Records[i], precomputed
	// for lookup. Derived, not persisted.
	normTitles []string
}

// persistedModel is the gob payload written to the store. The index is
// rebuilt from the matrix on load (deterministic for a fixed matrix).
type persistedModel struct {
	Schema      *FeatureSchema
	Matrix      [][]float64
	Records     []BookRecord
	Fingerprint string
	Fallback    bool
	TrainedAt   time.Time
}

// Engine owns the model lifecycle and serves recommendation queries.
// One shared TrainedModel per process: read by many concurrent queries,
// exclusively replaced by at most one training run. The swap is a
// single pointer replacement, so queries never observe partial state.
type Engine struct {
	config *Config
	logger zerolog.Logger

	corpus CorpusProvider
	scorer SentimentScorer
	store  *storage.Store

	// model is the current serving generation; nil until Ready.
	model atomic.Pointer[TrainedModel]

	// trainMu serializes training runs.
	trainMu  sync.Mutex
	training atomic.Bool

	// failed latches after a fatal fallback-training failure; cleared
	// by the next successful run.
	failed atomic.Bool

	retrainLimiter *rate.Limiter

	statusMu             sync.Mutex
	lastError            string
	lastTrainingDuration time.Duration
}

// NewEngine creates a recommendation engine. The scorer may be nil,
// in which case advanced training is skipped and every model uses the
// fallback schema.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, corpus CorpusProvider, scorer SentimentScorer, store *storage.Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if corpus == nil {
		return nil, fmt.Errorf("corpus provider is required")
	}
	if store == nil {
		return nil, fmt.Errorf("model store is required")
	}

	limit := rate.Inf
	if cfg.Training.RetrainMinInterval > 0 {
		limit = rate.Every(cfg.Training.RetrainMinInterval)
	}

	return &Engine{
		config:         cfg,
		logger:         logger.With().Str("component", "engine").Logger(),
		corpus:         corpus,
		scorer:         scorer,
		store:          store,
		retrainLimiter: rate.NewLimiter(limit, 1),
	}, nil
}

// EnsureReady brings the engine to the Ready state, loading the
// persisted model or training a new one as needed. Idempotent; a call
// while another caller is initializing blocks until that run finishes.
// Returns ErrModelUnavailable only when fallback training also failed.
func (e *Engine) EnsureReady(ctx context.Context) error {
	if e.model.Load() != nil {
		return nil
	}

	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	// Another caller may have initialized while we waited.
	if e.model.Load() != nil {
		return nil
	}

	if model, err := e.tryLoad(ctx); err == nil {
		e.model.Store(model)
		e.failed.Store(false)
		e.logger.Info().
			Str("schema", model.Schema.Name).
			Int("dimension", model.Schema.Dim).
			Int("corpus_size", len(model.Records)).
			Int("version", model.Version).
			Msg("loaded persisted model")
		return nil
	} else if errors.Is(err, ErrSchemaMismatch) {
		// Incompatible persisted state is expected after a vectorizer
		// change or corpus rebuild, not an operational fault.
		e.logger.Warn().Err(err).Msg("persisted model incompatible, retraining")
	} else {
		e.logger.Warn().Err(err).Msg("no usable persisted model, training")
	}

	return e.trainLocked(ctx)
}

// ForceRetrain discards the serving model and trains a fresh one,
// only swapping after the new model is confirmed trained: there is no
// window where neither model is available. Rejects concurrent and
// rapid-fire requests.
func (e *Engine) ForceRetrain(ctx context.Context) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	// Take the rate-limiter token only after winning the lock so a
	// rejected concurrent request does not burn the retrain budget.
	if !e.retrainLimiter.Allow() {
		return ErrRetrainThrottled
	}

	return e.trainLocked(ctx)
}

// Retrain trains a new model, blocking if another run is in progress.
// Used by the scheduled training service; the serving model keeps
// answering queries until the swap.
func (e *Engine) Retrain(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	return e.trainLocked(ctx)
}

// trainLocked runs the advanced-then-fallback training ladder.
// Must be called with trainMu held.
func (e *Engine) trainLocked(ctx context.Context) error {
	e.training.Store(true)
	defer e.training.Store(false)

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	model, err := e.train(ctx)

	e.statusMu.Lock()
	e.lastTrainingDuration = time.Since(start)
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
	e.statusMu.Unlock()

	if err != nil {
		// ErrModelUnavailable is reserved for the genuinely model-less
		// case; a failed retrain with a serving model keeps answering
		// queries from the previous generation.
		if e.model.Load() == nil {
			e.failed.Store(true)
			e.logger.Error().Err(err).Msg("training failed")
			return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
		e.logger.Error().Err(err).Msg("training failed, previous model still serving")
		return err
	}

	// Atomic swap: readers see either the old or the new generation.
	e.model.Store(model)
	e.failed.Store(false)

	e.logger.Info().
		Str("schema", model.Schema.Name).
		Bool("fallback", model.Fallback).
		Int("dimension", model.Schema.Dim).
		Int("corpus_size", len(model.Records)).
		Int("version", model.Version).
		Dur("duration", time.Since(start)).
		Msg("training complete")

	return nil
}

// train builds, persists, and returns a new model generation.
// Tries the advanced schema first; any advanced failure escalates to
// the fallback schema. A fallback failure is fatal.
func (e *Engine) train(ctx context.Context) (*TrainedModel, error) {
	records, err := e.corpus.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if len(records) < e.config.Training.MinRecords {
		return nil, fmt.Errorf("%w: %d records, need %d", ErrCorpusTooSmall, len(records), e.config.Training.MinRecords)
	}

	fingerprint, err := e.corpus.Fingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus fingerprint: %w", err)
	}

	stats := ComputeStats(records)

	model, advErr := e.buildModel(ctx, records, stats, fingerprint, SchemaAdvanced)
	if advErr != nil {
		if ctx.Err() != nil {
			return nil, advErr
		}
		e.logger.Warn().Err(advErr).Msg("advanced training failed, falling back to reduced schema")

		model, err = e.buildModel(ctx, records, stats, fingerprint, SchemaFallback)
		if err != nil {
			return nil, fmt.Errorf("fallback training: %w", err)
		}
	}

	if err := e.persist(ctx, model); err != nil {
		// A model that cannot be persisted still serves this process;
		// the next start retrains.
		e.logger.Warn().Err(err).Msg("persisting trained model failed")
	}

	return model, nil
}

// buildModel fits a schema, builds the matrix, and trains the index.
func (e *Engine) buildModel(ctx context.Context, records []BookRecord, stats *CorpusStatistics, fingerprint, kind string) (*TrainedModel, error) {
	schema, err := FitSchema(kind, stats, e.config.Schema)
	if err != nil {
		return nil, err
	}

	matrix, err := BuildMatrix(ctx, records, schema, e.scorer)
	if err != nil {
		return nil, err
	}

	index, err := TrainIndex(matrix)
	if err != nil {
		return nil, err
	}

	return &TrainedModel{
		Schema:      schema,
		Matrix:      matrix,
		Records:     records,
		Index:       index,
		Fingerprint: fingerprint,
		TrainedAt:   time.Now(),
		Fallback:    kind == SchemaFallback,
		normTitles:  normalizeTitles(records),
	}, nil
}

// persist writes the model to the store under the next version and
// prunes old versions.
func (e *Engine) persist(ctx context.Context, model *TrainedModel) error {
	version, _ := e.store.GetLatestVersion(modelName)
	version++

	meta := storage.ModelMetadata{
		SchemaName:         model.Schema.Name,
		Dimension:          model.Schema.Dim,
		Fallback:           model.Fallback,
		CorpusSize:         len(model.Records),
		CorpusFingerprint:  model.Fingerprint,
		TrainedAt:          model.TrainedAt,
		TrainingDurationMS: e.lastTrainingDurationMS(),
	}

	payload := persistedModel{
		Schema:      model.Schema,
		Matrix:      model.Matrix,
		Records:     model.Records,
		Fingerprint: model.Fingerprint,
		Fallback:    model.Fallback,
		TrainedAt:   model.TrainedAt,
	}

	if err := e.store.Save(ctx, modelName, version, payload, meta); err != nil {
		return err
	}
	model.Version = version

	if err := e.store.Prune(ctx, modelName, e.config.Training.RetainVersions); err != nil {
		e.logger.Debug().Err(err).Msg("pruning old model versions failed")
	}

	return nil
}

// tryLoad restores the latest persisted model and validates it against
// the current corpus and vectorizer generation. Any incompatibility is
// reported as ErrSchemaMismatch and treated as corrupt by the caller.
func (e *Engine) tryLoad(ctx context.Context) (*TrainedModel, error) {
	var payload persistedModel
	meta, err := e.store.Load(ctx, modelName, 0, &payload)
	if err != nil {
		return nil, err
	}

	if payload.Schema == nil {
		return nil, fmt.Errorf("%w: missing schema", ErrSchemaMismatch)
	}
	if payload.Schema.Name != SchemaAdvanced && payload.Schema.Name != SchemaFallback {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrSchemaMismatch, payload.Schema.Name)
	}
	if meta.SchemaName != payload.Schema.Name || meta.Dimension != payload.Schema.Dim {
		return nil, fmt.Errorf("%w: metadata disagrees with payload schema", ErrSchemaMismatch)
	}
	if len(payload.Matrix) != len(payload.Records) {
		return nil, fmt.Errorf("%w: %d matrix rows for %d records", ErrSchemaMismatch, len(payload.Matrix), len(payload.Records))
	}

	// A rebuilt corpus invalidates the matrix: row indices are the only
	// join key between the two.
	fingerprint, err := e.corpus.Fingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus fingerprint: %w", err)
	}
	if fingerprint != payload.Fingerprint {
		return nil, fmt.Errorf("%w: corpus changed since training", ErrSchemaMismatch)
	}

	index, err := TrainIndex(payload.Matrix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	return &TrainedModel{
		Schema:      payload.Schema,
		Matrix:      payload.Matrix,
		Records:     payload.Records,
		Index:       index,
		Fingerprint: payload.Fingerprint,
		Version:     meta.Version,
		TrainedAt:   payload.TrainedAt,
		Fallback:    payload.Fallback,
		normTitles:  normalizeTitles(payload.Records),
	}, nil
}

// RecommendByTitle resolves a title to its corpus row and returns the
// k most similar books. Lookup is case-insensitive with whitespace
// collapsed, tolerating partial matches; when several rows match, the
// first in corpus order wins.
func (e *Engine) RecommendByTitle(ctx context.Context, title string, k int) ([]ScoredBook, error) {
	model, err := e.serving()
	if err != nil {
		return nil, err
	}

	k, err = e.clampK(k)
	if err != nil {
		return nil, err
	}

	row, ok := model.lookupTitle(title)
	if !ok {
		return nil, fmt.Errorf("%q: %w", title, ErrTitleNotFound)
	}

	neighbors, err := model.Index.QueryByRow(row, k)
	if err != nil {
		return nil, err
	}

	return model.scoreNeighbors(neighbors), nil
}

// RecommendByVector returns the k books nearest to an arbitrary query
// vector, which must match the trained dimension exactly: a wrong
// length is a constraint violation, never truncated or padded.
func (e *Engine) RecommendByVector(ctx context.Context, vec []float64, k int) ([]ScoredBook, error) {
	model, err := e.serving()
	if err != nil {
		return nil, err
	}

	k, err = e.clampK(k)
	if err != nil {
		return nil, err
	}

	neighbors, err := model.Index.Query(vec, k)
	if err != nil {
		return nil, err
	}

	return model.scoreNeighbors(neighbors), nil
}

// Status returns a snapshot of the model lifecycle.
func (e *Engine) Status() Status {
	e.statusMu.Lock()
	lastError := e.lastError
	duration := e.lastTrainingDuration
	e.statusMu.Unlock()

	status := Status{
		State:                  e.state().String(),
		LastError:              lastError,
		LastTrainingDurationMS: duration.Milliseconds(),
	}

	if model := e.model.Load(); model != nil {
		status.SchemaName = model.Schema.Name
		status.Dimension = model.Schema.Dim
		status.Fallback = model.Fallback
		status.CorpusSize = len(model.Records)
		status.ModelVersion = model.Version
		status.TrainedAt = model.TrainedAt
	}

	return status
}

// Dimension returns the serving model's vector dimension, 0 when no
// model is serving.
func (e *Engine) Dimension() int {
	if model := e.model.Load(); model != nil {
		return model.Schema.Dim
	}
	return 0
}

// state derives the lifecycle state from the engine flags.
func (e *Engine) state() EngineState {
	switch {
	case e.training.Load():
		return StateTraining
	case e.model.Load() != nil:
		return StateReady
	case e.failed.Load():
		return StateFailed
	default:
		return StateUninitialized
	}
}

// serving returns the current model or ErrModelUnavailable.
func (e *Engine) serving() (*TrainedModel, error) {
	model := e.model.Load()
	if model == nil {
		return nil, ErrModelUnavailable
	}
	return model, nil
}

// clampK applies the default and maximum k limits.
func (e *Engine) clampK(k int) (int, error) {
	if k == 0 {
		return e.config.Limits.DefaultK, nil
	}
	if k < 0 {
		return 0, ErrInvalidK
	}
	if k > e.config.Limits.MaxK {
		return e.config.Limits.MaxK, nil
	}
	return k, nil
}

// lookupTitle resolves a title to a corpus row: exact normalized match
// first, then substring containment, each scanning rows in ascending
// order so duplicate titles resolve deterministically to the first.
func (m *TrainedModel) lookupTitle(title string) (int, bool) {
	query := normalizeTitle(title)
	if query == "" {
		return 0, false
	}

	for i, t := range m.normTitles {
		if t == query {
			return i, true
		}
	}

	for i, t := range m.normTitles {
		if strings.Contains(t, query) {
			return i, true
		}
	}

	return 0, false
}

// scoreNeighbors joins neighbor rows back to their records and converts
// distances to similarity scores, preserving the ascending-distance
// (descending-similarity) order.
func (m *TrainedModel) scoreNeighbors(neighbors []Neighbor) []ScoredBook {
	results := make([]ScoredBook, len(neighbors))
	for i, n := range neighbors {
		rec := &m.Records[n.Row]
		results[i] = ScoredBook{
			Row:           rec.Row,
			Title:         rec.Title,
			Author:        rec.Author,
			LanguageCode:  rec.LanguageCode,
			AverageRating: rec.AverageRating,
			RatingsCount:  rec.RatingsCount,
			Similarity:    Similarity(n.Distance),
		}
	}
	return results
}

func (e *Engine) lastTrainingDurationMS() int64 {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	return e.lastTrainingDuration.Milliseconds()
}

// normalizeTitle case-folds, trims, and collapses internal whitespace.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

func normalizeTitles(records []BookRecord) []string {
	titles := make([]string, len(records))
	for i := range records {
		titles[i] = normalizeTitle(records[i].Title)
	}
	return titles
}
