// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package config loads and validates the Campaignwatch configuration.

# Configuration Sources

Configuration is layered, later layers overriding earlier ones:
  - Built-in defaults (each detection package's DefaultConfig)
  - An optional YAML file: $CONFIG_PATH, else config.yaml / config.yml in
    the working directory, else /etc/campaignwatch/config.yaml
  - Environment variables listed in the mapping table in koanf.go

The binaries also load a .env file (joho/godotenv) before calling
LoadWithKoanf, so local development can keep overrides out of the shell.

# Sections

  - logging: level, format, caller
  - server: HTTP ops server address, timeouts and rate limit
  - storage: DuckDB path for items and trend counters, BadgerDB path for rules
  - scoring: threshold profile selection and the relevance gate
  - sentiment: lexicon word lists and circuit breaker
  - engagement: interaction weights, virality and bot heuristics
  - coordination: cluster minimums, similarity threshold, timing bucket
  - anomaly: lookback and recent windows, z-score tiers
  - influence: influence score weights
  - report: top-N limits, recommendation thresholds, schedule
  - pipeline: ingest topic, window capacity and alert conditions

# Example

	# config.yaml
	scoring:
	  profile: light
	coordination:
	  similarity_threshold: 0.85
	anomaly:
	  lookback: 72h

Equivalent environment overrides:

	THRESHOLD_PROFILE=light
	SIMILARITY_THRESHOLD=0.85
	ANOMALY_LOOKBACK=72h

# Validation

Validate applies the validate struct tags (go-playground/validator) and the
cross-field rules: tier cut-offs must strictly descend in both threshold
profiles and the window may not exceed the coordination limit. Every failure
wraps ErrInvalidConfig.
*/
package config
