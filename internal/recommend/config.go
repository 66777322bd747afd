// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Schema contains feature schema parameters.
	Schema SchemaConfig `json:"schema"`

	// Training contains training schedule parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// SchemaConfig contains feature schema parameters. These are frozen
// into the schema at training time; changing them takes effect on the
// next training run, not on the serving model.
type SchemaConfig struct {
	// TopLanguages is the number of language one-hot buckets in the
	// advanced schema. Languages outside the top-K share an "other"
	// bucket. Default: 20.
	TopLanguages int `json:"top_languages"`

	// FallbackLanguages is the number of language buckets in the
	// fallback schema. Default: 3.
	FallbackLanguages int `json:"fallback_languages"`

	// PopularityPercentile bounds the log-popularity min-max scaling.
	// Values outside the [1-p, p] percentile band clip to [0, 1].
	// Default: 0.95.
	PopularityPercentile float64 `json:"popularity_percentile"`
}

// TrainingConfig contains training schedule parameters.
type TrainingConfig struct {
	// Interval is the time between scheduled retraining runs.
	// Default: 24h.
	Interval time.Duration `json:"interval"`

	// MinRecords is the minimum corpus size required to train.
	// Default: 10.
	MinRecords int `json:"min_records"`

	// Timeout is the maximum time allowed for a training run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`

	// RetainVersions is the number of persisted model versions to keep.
	// Default: 3.
	RetainVersions int `json:"retain_versions"`

	// RetrainMinInterval is the minimum time between force-retrain
	// requests; requests arriving faster are rejected.
	// Default: 1m.
	RetrainMinInterval time.Duration `json:"retrain_min_interval"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when the
	// caller does not specify k. Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed k value. Default: 50.
	MaxK int `json:"max_k"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Schema: SchemaConfig{
			TopLanguages:         20,
			FallbackLanguages:    3,
			PopularityPercentile: 0.95,
		},
		Training: TrainingConfig{
			Interval:           24 * time.Hour,
			MinRecords:         10,
			Timeout:            10 * time.Minute,
			RetainVersions:     3,
			RetrainMinInterval: time.Minute,
		},
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     50,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Schema.TopLanguages < 1 {
		return fmt.Errorf("schema.top_languages must be positive, got %d", c.Schema.TopLanguages)
	}
	if c.Schema.FallbackLanguages < 1 {
		return fmt.Errorf("schema.fallback_languages must be positive, got %d", c.Schema.FallbackLanguages)
	}
	if c.Schema.FallbackLanguages > c.Schema.TopLanguages {
		return fmt.Errorf("schema.fallback_languages must be <= schema.top_languages, got %d > %d",
			c.Schema.FallbackLanguages, c.Schema.TopLanguages)
	}
	if c.Schema.PopularityPercentile <= 0.5 || c.Schema.PopularityPercentile > 1.0 {
		return fmt.Errorf("schema.popularity_percentile must be in (0.5, 1.0], got %f", c.Schema.PopularityPercentile)
	}

	if c.Training.MinRecords < 2 {
		return fmt.Errorf("training.min_records must be at least 2, got %d", c.Training.MinRecords)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}
	if c.Training.RetrainMinInterval < 0 {
		return fmt.Errorf("training.retrain_min_interval must be non-negative, got %v", c.Training.RetrainMinInterval)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	return &Config{
		Schema:   c.Schema,
		Training: c.Training,
		Limits:   c.Limits,
	}
}
