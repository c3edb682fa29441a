// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/campaignwatch/internal/anomaly"
	"github.com/tomtom215/campaignwatch/internal/coordination"
	"github.com/tomtom215/campaignwatch/internal/engagement"
	"github.com/tomtom215/campaignwatch/internal/influence"
	"github.com/tomtom215/campaignwatch/internal/pipeline"
	"github.com/tomtom215/campaignwatch/internal/report"
	"github.com/tomtom215/campaignwatch/internal/scoring"
	"github.com/tomtom215/campaignwatch/internal/sentiment"
	"github.com/tomtom215/campaignwatch/internal/store"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/campaignwatch/config.yaml",
	"/etc/campaignwatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Server: ServerConfig{
			Enabled:           true,
			Host:              "0.0.0.0",
			Port:              8470,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			MaxBodyBytes:      1 << 20,
		},
		Storage: StorageConfig{
			DuckDB:           store.DefaultConfig(),
			RulesPath:        "/data/rules",
			SeedDefaultRules: true,
		},
		Scoring:      scoring.DefaultConfig(),
		Sentiment:    sentiment.DefaultConfig(),
		Engagement:   engagement.DefaultConfig(),
		Coordination: coordination.DefaultConfig(),
		Anomaly:      anomaly.DefaultConfig(),
		Influence:    influence.DefaultConfig(),
		Report:       report.DefaultConfig(),
		Pipeline:     pipeline.DefaultConfig(),
	}
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration in three layers: struct defaults, an
// optional YAML file, then mapped environment variables. The result is
// validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"sentiment.negative_words",
	"sentiment.positive_words",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// HTTP ops server
	"http_enabled":          "server.enabled",
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Storage
	"duckdb_path":        "storage.duckdb.path",
	"duckdb_threads":     "storage.duckdb.threads",
	"duckdb_max_memory":  "storage.duckdb.max_memory",
	"rules_path":         "storage.rules_path",
	"seed_default_rules": "storage.seed_default_rules",

	// Scoring
	"threshold_profile":   "scoring.profile",
	"relevance_sentiment": "scoring.relevance_sentiment",
	"relevance_severity":  "scoring.relevance_severity",
	"extract_entities":    "scoring.extract_entities",

	// Sentiment
	"sentiment_enabled":                   "sentiment.enabled",
	"sentiment_negative_words":            "sentiment.negative_words",
	"sentiment_positive_words":            "sentiment.positive_words",
	"sentiment_scale":                     "sentiment.scale",
	"sentiment_breaker_timeout":           "sentiment.breaker.timeout",
	"sentiment_breaker_failure_threshold": "sentiment.breaker.failure_threshold",
	"sentiment_call_timeout":              "sentiment.breaker.call_timeout",

	// Engagement
	"viral_likes":    "engagement.viral_likes",
	"viral_shares":   "engagement.viral_shares",
	"viral_comments": "engagement.viral_comments",

	// Coordination
	"coordination_min_items":  "coordination.min_items",
	"similarity_threshold":    "coordination.similarity_threshold",
	"timing_bucket":           "coordination.timing_bucket",
	"coordination_max_window": "coordination.max_window_size",
	"hashtag_min_items":       "coordination.hashtag_min_items",
	"hashtag_min_authors":     "coordination.hashtag_min_authors",
	"timing_min_items":        "coordination.timing_min_items",
	"timing_min_authors":      "coordination.timing_min_authors",
	"similarity_min_items":    "coordination.similarity_min_items",
	"similarity_min_authors":  "coordination.similarity_min_authors",

	// Anomaly
	"anomaly_lookback":      "anomaly.lookback",
	"anomaly_recent_window": "anomaly.recent_window",
	"anomaly_min_history":   "anomaly.min_history",
	"anomaly_z_threshold":   "anomaly.z_threshold",

	// Report
	"report_interval":        "report.interval",
	"report_top_campaigns":   "report.top_campaigns",
	"report_top_influencers": "report.top_influencers",
	"report_top_keywords":    "report.top_keywords",

	// Pipeline
	"ingest_topic":       "pipeline.topic",
	"ingest_buffer_size": "pipeline.buffer_size",
	"window_max_items":   "pipeline.window_max_items",
	"window_retention":   "pipeline.window_retention",
	"alert_threat_level": "pipeline.alert_threat_level",
	"alert_severity":     "pipeline.alert_severity",
	"alert_on_viral":     "pipeline.alert_on_viral",
}

// envTransformFunc maps an environment variable name to its koanf path,
// returning "" for variables that are not configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
