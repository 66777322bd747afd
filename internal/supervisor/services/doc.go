// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package services provides suture service wrappers for the
// application's long-running components: the HTTP server and the
// scheduled model training loop.
package services
