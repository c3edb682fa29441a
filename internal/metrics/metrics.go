// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campaignwatch"

var (
	// Scoring

	ItemsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_ingested_total",
			Help:      "Content items received by the ingest consumer",
		},
		[]string{"platform"},
	)

	ItemsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_scored_total",
			Help:      "Content items scored, by threat level",
		},
		[]string{"platform", "threat_level"},
	)

	ItemsRelevant = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_relevant_total",
			Help:      "Scored items that passed the relevance gate",
		},
		[]string{"platform"},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time to score one content item",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	RuleDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_detections_total",
			Help:      "Rule matches recorded, by rule kind",
		},
		[]string{"kind"},
	)

	RuleDetectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_detection_errors_total",
			Help:      "Failed rule detection-count increments",
		},
	)

	SentimentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_failures_total",
			Help:      "Sentiment lookups that fell back to neutral",
		},
		[]string{"reason"},
	)

	// SentimentBreakerState is 0 closed, 1 half-open, 2 open.
	SentimentBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sentiment_breaker_state",
			Help:      "Sentiment circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Detection and reporting

	ClustersDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_detected_total",
			Help:      "Coordination clusters reported, by cluster type",
		},
		[]string{"type"},
	)

	AnomaliesFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_flagged_total",
			Help:      "Hourly mention anomalies flagged, by threat level",
		},
		[]string{"threat_level"},
	)

	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Per-item alerts raised, by threat level",
		},
		[]string{"threat_level"},
	)

	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time to generate one report",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ReportRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_runs_total",
			Help:      "Report generations, by outcome",
		},
		[]string{"status"},
	)

	WindowItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_items",
			Help:      "Scored items currently held in the report window",
		},
	)

	// Infrastructure

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duckdb_query_duration_seconds",
			Help:      "Duration of DuckDB queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duckdb_query_errors_total",
			Help:      "DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	TrendIncrementErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trend_increment_errors_total",
			Help:      "Failed hourly trend counter increments",
		},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_errors_total",
			Help:      "Ingest failures, by stage",
		},
		[]string{"stage"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordItemScored records one scoring call.
func RecordItemScored(platform, threatLevel string, relevant bool, duration time.Duration) {
	ItemsScored.WithLabelValues(platform, threatLevel).Inc()
	if relevant {
		ItemsRelevant.WithLabelValues(platform).Inc()
	}
	ScoringDuration.Observe(duration.Seconds())
}

// RecordRuleDetection records a detection-count increment for a rule of kind.
func RecordRuleDetection(kind string, err error) {
	if err != nil {
		RuleDetectionErrors.Inc()
		return
	}
	RuleDetections.WithLabelValues(kind).Inc()
}

// RecordReport records one report generation.
func RecordReport(duration time.Duration, err error) {
	ReportDuration.Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	ReportRuns.WithLabelValues(status).Inc()
}

// RecordDBQuery records a DuckDB query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
