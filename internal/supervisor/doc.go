// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package supervisor provides Suture-based process supervision.
//
// The tree has two child layers for failure isolation: the training
// layer runs the scheduled retraining loop, the api layer runs the
// HTTP server. A panic in a training run restarts only that layer;
// the serving model keeps answering queries.
package supervisor
