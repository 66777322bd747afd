// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all settings
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: override any setting
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	Recommend RecommendConfig `koanf:"recommend"`
	Sentiment SentimentConfig `koanf:"sentiment"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - HTTP_PORT: listen port (default: 8080)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: request timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production"
type ServerConfig struct {
	Port        int           `koanf:"port" validate:"min=1,max=65535"`
	Host        string        `koanf:"host" validate:"required"`
	Timeout     time.Duration `koanf:"timeout" validate:"min=1s"`
	Environment string        `koanf:"environment" validate:"oneof=development production"`
}

// DatabaseConfig holds DuckDB settings for the book corpus.
//
// Environment variables:
//   - DUCKDB_PATH: database file path (default: /data/books.duckdb)
//   - DUCKDB_MAX_MEMORY: memory limit (default: 1GB)
//   - DUCKDB_THREADS: worker threads, 0 = runtime.NumCPU()
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"min=0"`

	// PreserveInsertionOrder keeps DuckDB result order stable; required
	// for reproducible corpus row ids.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// CorpusConfig holds book catalog import settings.
//
// Environment variables:
//   - CORPUS_CSV_PATH: source catalog CSV (default: /data/books.csv)
//   - CORPUS_IMPORT_ON_STARTUP: import the CSV at startup when the
//     corpus table is empty (default: true)
type CorpusConfig struct {
	CSVPath         string `koanf:"csv_path"`
	ImportOnStartup bool   `koanf:"import_on_startup"`
}

// RecommendConfig holds recommendation engine settings. The schema
// parameters are frozen into the model at training time; changes take
// effect on the next training run.
type RecommendConfig struct {
	// ModelPath is the directory for persisted model files.
	ModelPath string `koanf:"model_path" validate:"required"`

	// TrainOnStartup trains eagerly at startup instead of on the first
	// recommendation request.
	TrainOnStartup bool `koanf:"train_on_startup"`

	// TrainInterval is the scheduled retraining period.
	TrainInterval time.Duration `koanf:"train_interval" validate:"min=1m"`

	// TrainTimeout bounds a single training run.
	TrainTimeout time.Duration `koanf:"train_timeout" validate:"min=1s"`

	// MinRecords is the minimum corpus size required to train.
	MinRecords int `koanf:"min_records" validate:"min=2"`

	// RetainVersions is how many persisted model versions to keep.
	RetainVersions int `koanf:"retain_versions" validate:"min=1"`

	// RetrainMinInterval throttles force-retrain requests.
	RetrainMinInterval time.Duration `koanf:"retrain_min_interval" validate:"min=0"`

	// TopLanguages and FallbackLanguages size the language one-hot
	// groups of the full and reduced feature schemas.
	TopLanguages      int `koanf:"top_languages" validate:"min=1"`
	FallbackLanguages int `koanf:"fallback_languages" validate:"min=1"`

	// PopularityPercentile bounds log-popularity scaling.
	PopularityPercentile float64 `koanf:"popularity_percentile" validate:"gt=0.5,lte=1"`

	// DefaultK and MaxK bound the recommendation list size.
	DefaultK int `koanf:"default_k" validate:"min=1"`
	MaxK     int `koanf:"max_k" validate:"min=1"`
}

// SentimentConfig holds the review sentiment classifier settings.
//
// Environment variables:
//   - SENTIMENT_STORE_PATH: Badger directory for the persisted
//     classifier (default: /data/sentiment)
type SentimentConfig struct {
	StorePath string `koanf:"store_path" validate:"required"`
}

// APIConfig holds API surface settings: rate limiting and CORS.
type APIConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

var validate = validator.New()

// Validate checks the configuration, combining struct tag validation
// with cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("recommend.max_k (%d) must be >= recommend.default_k (%d)",
			c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	if c.Recommend.FallbackLanguages > c.Recommend.TopLanguages {
		return fmt.Errorf("recommend.fallback_languages (%d) must be <= recommend.top_languages (%d)",
			c.Recommend.FallbackLanguages, c.Recommend.TopLanguages)
	}
	if c.Corpus.ImportOnStartup && c.Corpus.CSVPath == "" {
		return fmt.Errorf("corpus.csv_path is required when corpus.import_on_startup is set")
	}

	return nil
}
