// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package pipeline

import (
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

type Config struct {
	Topic      string `koanf:"topic" validate:"required"`
	BufferSize int64  `koanf:"buffer_size" validate:"gte=0"`

	WindowMaxItems  int           `koanf:"window_max_items" validate:"gte=1"`
	WindowRetention time.Duration `koanf:"window_retention" validate:"gt=0"`
	MaxAlerts       int           `koanf:"max_alerts" validate:"gte=1"`

	// An item alerts when its tier is at least AlertThreatLevel, its
	// severity exceeds AlertSeverity, or (with AlertOnViral) its engagement
	// is viral.
	AlertThreatLevel models.ThreatLevel `koanf:"alert_threat_level" validate:"threat_level"`
	AlertSeverity    float64            `koanf:"alert_severity" validate:"gt=0"`
	AlertOnViral     bool               `koanf:"alert_on_viral"`
}

func DefaultConfig() Config {
	return Config{
		Topic:            "content.items",
		BufferSize:       256,
		WindowMaxItems:   5000,
		WindowRetention:  24 * time.Hour,
		MaxAlerts:        1000,
		AlertThreatLevel: models.ThreatHigh,
		AlertSeverity:    20,
		AlertOnViral:     true,
	}
}
