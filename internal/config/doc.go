// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

// Package config provides layered configuration loading for the
// service: built-in defaults, an optional YAML file, and environment
// variable overrides, in ascending precedence.
//
// Loading is backed by Koanf v2; validation combines struct tags
// (go-playground/validator) with explicit cross-field checks.
package config
