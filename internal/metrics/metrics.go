// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Query Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation queries answered",
		},
		[]string{"query_type"}, // "title", "vector"
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_errors_total",
			Help: "Total number of failed recommendation queries",
		},
		[]string{"query_type", "reason"}, // reason: "not_found", "unavailable", "invalid"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_query_duration_seconds",
			Help:    "Recommendation query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"trigger", "result"}, // trigger: "startup", "scheduled", "forced"; result: "success", "failure"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	ModelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_info",
			Help: "Serving model generation (value is the model version)",
		},
		[]string{"schema", "fallback"},
	)

	ModelDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_dimension",
			Help: "Feature vector dimension of the serving model",
		},
	)

	CorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_size",
			Help: "Number of books in the catalog",
		},
	)

	// Sentiment Classifier Metrics
	SentimentScores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_scores_total",
			Help: "Total number of review texts scored",
		},
	)

	SentimentUnavailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_unavailable_total",
			Help: "Total number of scoring requests rejected because no classifier was loaded",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records a served recommendation query
func RecordRecommendation(queryType string, duration time.Duration) {
	RecommendationsServed.WithLabelValues(queryType).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordRecommendationError records a failed recommendation query
func RecordRecommendationError(queryType, reason string) {
	RecommendationErrors.WithLabelValues(queryType, reason).Inc()
}

// RecordTraining records a training run outcome
func RecordTraining(trigger string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	TrainingRuns.WithLabelValues(trigger, result).Inc()
	TrainingDuration.Observe(duration.Seconds())
}

// UpdateModelInfo publishes the serving model generation. Previous
// label combinations are reset so only one generation is reported.
func UpdateModelInfo(schema string, fallback bool, version, dimension, corpusSize int) {
	fb := "false"
	if fallback {
		fb = "true"
	}
	ModelInfo.Reset()
	ModelInfo.WithLabelValues(schema, fb).Set(float64(version))
	ModelDimension.Set(float64(dimension))
	CorpusSize.Set(float64(corpusSize))
}
