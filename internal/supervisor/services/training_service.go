// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Poojan38380/Book-Recommender/internal/metrics"
	"github.com/Poojan38380/Book-Recommender/internal/recommend"
)

// TrainableEngine is the slice of the recommendation engine the
// training loop needs.
type TrainableEngine interface {
	// EnsureReady loads or trains an initial model.
	EnsureReady(ctx context.Context) error

	// Retrain trains a fresh model, blocking if a run is in progress.
	Retrain(ctx context.Context) error

	// Status reports the serving model snapshot.
	Status() recommend.Status
}

// TrainingServiceConfig holds the retraining schedule.
type TrainingServiceConfig struct {
	// TrainOnStartup triggers EnsureReady when the service starts.
	TrainOnStartup bool

	// Interval is the time between scheduled retraining runs.
	Interval time.Duration
}

// TrainingService runs the model training lifecycle under suture
// supervision: an optional startup run, then periodic retraining.
// A failed run is logged and retried on the next tick; the serving
// model is never discarded on failure.
type TrainingService struct {
	engine TrainableEngine
	config TrainingServiceConfig
	logger zerolog.Logger
	name   string
}

// NewTrainingService creates the training loop service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(engine TrainableEngine, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &TrainingService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "training").Logger(),
		name:   "training-service",
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Msg("training service starting")

	if s.config.TrainOnStartup {
		s.run(ctx, "startup", s.engine.EnsureReady)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.run(ctx, "scheduled", s.engine.Retrain)
		}
	}
}

// run executes one training pass and records its outcome.
func (s *TrainingService) run(ctx context.Context, trigger string, train func(context.Context) error) {
	start := time.Now()
	err := train(ctx)
	metrics.RecordTraining(trigger, time.Since(start), err)

	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("trigger", trigger).
			Msg("training run failed, model unchanged")
		return
	}

	st := s.engine.Status()
	metrics.UpdateModelInfo(st.SchemaName, st.Fallback, st.ModelVersion, st.Dimension, st.CorpusSize)
	s.logger.Info().
		Str("trigger", trigger).
		Str("schema", st.SchemaName).
		Int("model_version", st.ModelVersion).
		Int("corpus_size", st.CorpusSize).
		Dur("duration", time.Since(start)).
		Msg("training run complete")
}

// String returns the service name for suture's event log.
func (s *TrainingService) String() string {
	return s.name
}
