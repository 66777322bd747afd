// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package main is the entry point for the Book-Recommender server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (defaults, YAML file,
//     environment variables)
//  2. Book catalog: DuckDB store, with optional CSV import on startup
//  3. Sentiment classifier: Badger-persisted naive Bayes scorer
//  4. Model store: versioned gob/gzip snapshots on disk
//  5. Recommendation engine: loads a persisted model or trains one
//  6. HTTP API and training loop, both under suture supervision
//
// Graceful shutdown on SIGINT/SIGTERM stops accepting connections,
// drains in-flight requests and closes the stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Poojan38380/Book-Recommender/internal/api"
	"github.com/Poojan38380/Book-Recommender/internal/config"
	"github.com/Poojan38380/Book-Recommender/internal/corpus"
	"github.com/Poojan38380/Book-Recommender/internal/logging"
	"github.com/Poojan38380/Book-Recommender/internal/metrics"
	"github.com/Poojan38380/Book-Recommender/internal/recommend"
	"github.com/Poojan38380/Book-Recommender/internal/recommend/sentiment"
	"github.com/Poojan38380/Book-Recommender/internal/recommend/storage"
	"github.com/Poojan38380/Book-Recommender/internal/supervisor"
	"github.com/Poojan38380/Book-Recommender/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("model_path", cfg.Recommend.ModelPath).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Book-Recommender")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	catalog, err := corpus.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open book catalog")
	}
	defer func() {
		if err := catalog.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing book catalog")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Corpus.ImportOnStartup {
		if err := importCatalog(ctx, catalog, cfg.Corpus.CSVPath); err != nil {
			logging.Fatal().Err(err).Str("csv", cfg.Corpus.CSVPath).Msg("Catalog import failed")
		}
	}

	scorer := initSentiment(cfg.Sentiment.StorePath)

	modelStore, err := storage.NewStore(cfg.Recommend.ModelPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open model store")
	}

	engine, err := recommend.NewEngine(engineConfig(&cfg.Recommend), catalog, scorer, modelStore, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg.API, engine),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// zerolog is bridged to slog for sutureslog compatibility.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddTrainingService(services.NewTrainingService(engine, services.TrainingServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		Interval:       cfg.Recommend.TrainInterval,
	}, logging.Logger()))

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	start := time.Now()
	go trackUptime(ctx, start)

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// importCatalog imports the CSV into an empty catalog. A populated
// catalog is left untouched so persisted model fingerprints stay
// valid across restarts.
func importCatalog(ctx context.Context, catalog *corpus.Store, csvPath string) error {
	count, err := catalog.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Info().Int("books", count).Msg("Catalog already populated, skipping CSV import")
		return nil
	}

	imported, err := catalog.ImportCSV(ctx, csvPath)
	if err != nil {
		return err
	}
	logging.Info().Int("books", imported).Str("csv", csvPath).Msg("Catalog imported")
	return nil
}

// initSentiment loads or trains the sentiment classifier. Failure is
// non-fatal: the engine falls back to the reduced feature schema when
// no scorer is available.
func initSentiment(storePath string) recommend.SentimentScorer {
	store, err := sentiment.OpenStore(storePath)
	if err != nil {
		logging.Warn().Err(err).Str("path", storePath).
			Msg("Sentiment store unavailable, recommendations will use the fallback schema")
		return nil
	}

	// The scorer keeps the model in memory; the store is only needed
	// for the initial load or fit.
	scorer, err := sentiment.LoadOrTrain(store)
	if closeErr := store.Close(); closeErr != nil {
		logging.Error().Err(closeErr).Msg("Error closing sentiment store")
	}
	if err != nil {
		logging.Warn().Err(err).
			Msg("Sentiment classifier unavailable, recommendations will use the fallback schema")
		return nil
	}

	logging.Info().Msg("Sentiment classifier ready")
	return scorer
}

// engineConfig maps the application configuration onto the engine's.
func engineConfig(rc *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		Schema: recommend.SchemaConfig{
			TopLanguages:         rc.TopLanguages,
			FallbackLanguages:    rc.FallbackLanguages,
			PopularityPercentile: rc.PopularityPercentile,
		},
		Training: recommend.TrainingConfig{
			Interval:           rc.TrainInterval,
			MinRecords:         rc.MinRecords,
			Timeout:            rc.TrainTimeout,
			RetainVersions:     rc.RetainVersions,
			RetrainMinInterval: rc.RetrainMinInterval,
		},
		Limits: recommend.LimitsConfig{
			DefaultK: rc.DefaultK,
			MaxK:     rc.MaxK,
		},
	}
}

// trackUptime refreshes the uptime gauge once a second.
func trackUptime(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(start).Seconds())
		}
	}
}
