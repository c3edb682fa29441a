// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordItemScored(t *testing.T) {
	before := testutil.ToFloat64(ItemsScored.WithLabelValues("test-scored", "HIGH"))
	beforeRel := testutil.ToFloat64(ItemsRelevant.WithLabelValues("test-scored"))

	RecordItemScored("test-scored", "HIGH", true, time.Millisecond)
	RecordItemScored("test-scored", "HIGH", false, time.Millisecond)

	if got := testutil.ToFloat64(ItemsScored.WithLabelValues("test-scored", "HIGH")) - before; got != 2 {
		t.Errorf("items scored delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(ItemsRelevant.WithLabelValues("test-scored")) - beforeRel; got != 1 {
		t.Errorf("items relevant delta = %v, want 1", got)
	}
}

func TestRecordRuleDetection(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantOK   float64
		wantFail float64
	}{
		{"success", nil, 1, 0},
		{"failure", errors.New("conflict"), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			okBefore := testutil.ToFloat64(RuleDetections.WithLabelValues("keyword"))
			failBefore := testutil.ToFloat64(RuleDetectionErrors)

			RecordRuleDetection("keyword", tt.err)

			if got := testutil.ToFloat64(RuleDetections.WithLabelValues("keyword")) - okBefore; got != tt.wantOK {
				t.Errorf("detections delta = %v, want %v", got, tt.wantOK)
			}
			if got := testutil.ToFloat64(RuleDetectionErrors) - failBefore; got != tt.wantFail {
				t.Errorf("errors delta = %v, want %v", got, tt.wantFail)
			}
		})
	}
}

func TestRecordReport(t *testing.T) {
	okBefore := testutil.ToFloat64(ReportRuns.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(ReportRuns.WithLabelValues("error"))

	RecordReport(10*time.Millisecond, nil)
	RecordReport(10*time.Millisecond, errors.New("cancelled"))

	if got := testutil.ToFloat64(ReportRuns.WithLabelValues("success")) - okBefore; got != 1 {
		t.Errorf("success delta = %v", got)
	}
	if got := testutil.ToFloat64(ReportRuns.WithLabelValues("error")) - errBefore; got != 1 {
		t.Errorf("error delta = %v", got)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("upsert", "content_items"))
	RecordDBQuery("upsert", "content_items", time.Millisecond, nil)
	RecordDBQuery("upsert", "content_items", time.Millisecond, errors.New("locked"))
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("upsert", "content_items")) - before; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	RecordAPIRequest("GET", "/healthz", "200", time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/healthz", "200")) - before; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}
}
