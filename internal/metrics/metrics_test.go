// Book-Recommender - Content-Based Book Recommendation Service
// Copyright 2026 Poojan (Poojan38380)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Poojan38380/Book-Recommender

package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))

	RecordAPIRequest("GET", "/api/v1/health", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	if after != before+1 {
		t.Errorf("counter = %f, want %f", after, before+1)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsServed.WithLabelValues("title"))

	RecordRecommendation("title", 2*time.Millisecond)

	after := testutil.ToFloat64(RecommendationsServed.WithLabelValues("title"))
	if after != before+1 {
		t.Errorf("counter = %f, want %f", after, before+1)
	}
}

func TestRecordRecommendationError(t *testing.T) {
	before := testutil.ToFloat64(RecommendationErrors.WithLabelValues("title", "not_found"))

	RecordRecommendationError("title", "not_found")

	after := testutil.ToFloat64(RecommendationErrors.WithLabelValues("title", "not_found"))
	if after != before+1 {
		t.Errorf("counter = %f, want %f", after, before+1)
	}
}

func TestRecordTraining(t *testing.T) {
	successBefore := testutil.ToFloat64(TrainingRuns.WithLabelValues("forced", "success"))
	failureBefore := testutil.ToFloat64(TrainingRuns.WithLabelValues("forced", "failure"))

	RecordTraining("forced", time.Second, nil)
	RecordTraining("forced", time.Second, fmt.Errorf("corpus too small"))

	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("forced", "success")); got != successBefore+1 {
		t.Errorf("success counter = %f, want %f", got, successBefore+1)
	}
	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("forced", "failure")); got != failureBefore+1 {
		t.Errorf("failure counter = %f, want %f", got, failureBefore+1)
	}
}

func TestUpdateModelInfo(t *testing.T) {
	UpdateModelInfo("advanced-v1", false, 3, 29, 1000)

	if got := testutil.ToFloat64(ModelInfo.WithLabelValues("advanced-v1", "false")); got != 3 {
		t.Errorf("model info = %f, want 3", got)
	}
	if got := testutil.ToFloat64(ModelDimension); got != 29 {
		t.Errorf("dimension = %f, want 29", got)
	}
	if got := testutil.ToFloat64(CorpusSize); got != 1000 {
		t.Errorf("corpus size = %f, want 1000", got)
	}

	// A new generation replaces the previous label set entirely.
	UpdateModelInfo("fallback-v1", true, 4, 8, 1000)

	if got := testutil.ToFloat64(ModelInfo.WithLabelValues("fallback-v1", "true")); got != 4 {
		t.Errorf("model info = %f, want 4", got)
	}
	if got := testutil.ToFloat64(ModelInfo.WithLabelValues("advanced-v1", "false")); got != 0 {
		t.Errorf("stale generation still reported: %f", got)
	}
}
