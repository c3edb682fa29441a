// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package metrics defines the Prometheus collectors exported by Campaignwatch.

Collectors are registered with the default registry through promauto and are
served at /metrics by the api package:

	curl http://localhost:8470/metrics

# Available Metrics

Scoring:
  - campaignwatch_items_ingested_total{platform}
  - campaignwatch_items_scored_total{platform,threat_level}
  - campaignwatch_items_relevant_total{platform}
  - campaignwatch_scoring_duration_seconds
  - campaignwatch_rule_detections_total{kind}
  - campaignwatch_rule_detection_errors_total
  - campaignwatch_sentiment_failures_total{reason}
  - campaignwatch_sentiment_breaker_state{name}

Detection and reporting:
  - campaignwatch_clusters_detected_total{type}
  - campaignwatch_anomalies_flagged_total{threat_level}
  - campaignwatch_alerts_raised_total{threat_level}
  - campaignwatch_report_duration_seconds
  - campaignwatch_report_runs_total{status}
  - campaignwatch_window_items

Infrastructure:
  - campaignwatch_duckdb_query_duration_seconds{operation,table}
  - campaignwatch_duckdb_query_errors_total{operation,table}
  - campaignwatch_trend_increment_errors_total
  - campaignwatch_ingest_errors_total{stage}
  - campaignwatch_api_requests_total{method,route,status}
  - campaignwatch_api_request_duration_seconds{method,route}
*/
package metrics
