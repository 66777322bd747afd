// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package metrics provides Prometheus instrumentation for the service:
// API latency and throughput, recommendation query outcomes, model
// training runs, serving model identity, and sentiment classifier
// usage.
//
// All collectors register on the default registry via promauto and are
// exposed through the /metrics endpoint.
package metrics
