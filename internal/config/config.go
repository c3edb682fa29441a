// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package config

import (
	"errors"
	"time"

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

// ErrInvalidConfig is returned by Validate and LoadWithKoanf when the loaded
// configuration cannot be used. It is fatal at startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration. Detection sections reuse the Config
// types of their packages so the defaults live next to the code that uses
// them.
type Config struct {
	Logging LoggingConfig `koanf:"logging"`
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`

	Scoring      scoring.Config      `koanf:"scoring"`
	Sentiment    sentiment.Config    `koanf:"sentiment"`
	Engagement   engagement.Config   `koanf:"engagement"`
	Coordination coordination.Config `koanf:"coordination"`
	Anomaly      anomaly.Config      `koanf:"anomaly"`
	Influence    influence.Config    `koanf:"influence"`
	Report       report.Config       `koanf:"report"`
	Pipeline     pipeline.Config     `koanf:"pipeline"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ServerConfig holds the HTTP ops server settings.
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// MaxBodyBytes bounds POST bodies on the ingest endpoint.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gte=1024"`
}

// StorageConfig selects where rules, items and trend counters live.
type StorageConfig struct {
	DuckDB store.Config `koanf:"duckdb"`

	// RulesPath is the BadgerDB directory for the rule store. Empty keeps
	// rules in memory.
	RulesPath string `koanf:"rules_path"`

	// SeedDefaultRules adds the built-in rule pack on startup. Existing
	// rules are left alone.
	SeedDefaultRules bool `koanf:"seed_default_rules"`
}
