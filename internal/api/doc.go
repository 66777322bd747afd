// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package api implements the HTTP surface of the recommendation
// service: a chi router exposing health, status, recommendation and
// training endpoints under /api/v1, plus the Prometheus scrape
// endpoint at /metrics.
//
// All endpoints respond with the models.APIResponse envelope. Engine
// errors are mapped to stable error codes and HTTP status codes in
// mapEngineError, so clients can branch on codes rather than message
// text.
package api
