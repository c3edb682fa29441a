// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package scoring

import (
	"fmt"

	"github.com/tomtom215/campaignwatch/internal/models"
)

// ThresholdProfile maps a severity score to a threat level. Each cut-off is
// inclusive; a zero cut-off disables that tier. Scores below every enabled
// cut-off get Floor.
type ThresholdProfile struct {
	Name     string             `json:"name" koanf:"name"`
	Critical float64            `json:"critical" koanf:"critical" validate:"gte=0"`
	High     float64            `json:"high" koanf:"high" validate:"gte=0"`
	Medium   float64            `json:"medium" koanf:"medium" validate:"gte=0"`
	Low      float64            `json:"low" koanf:"low" validate:"gte=0"`
	Floor    models.ThreatLevel `json:"floor" koanf:"floor" validate:"threat_level"`
}

// Profile names.
const (
	ProfileStandard = "standard"
	ProfileLight    = "light"
)

// StandardProfile is used for full content scoring:
// >=25 CRITICAL, >=15 HIGH, >=8 MEDIUM, else LOW.
func StandardProfile() ThresholdProfile {
	return ThresholdProfile{
		Name:     ProfileStandard,
		Critical: 25,
		High:     15,
		Medium:   8,
		Floor:    models.ThreatLow,
	}
}

// LightProfile suits short keyword-only checks:
// >=5 HIGH, >=3 MEDIUM, >=1 LOW, else NONE.
func LightProfile() ThresholdProfile {
	return ThresholdProfile{
		Name:   ProfileLight,
		High:   5,
		Medium: 3,
		Low:    1,
		Floor:  models.ThreatNone,
	}
}

type tier struct {
	cut   float64
	level models.ThreatLevel
}

func (p ThresholdProfile) tiers() []tier {
	all := []tier{
		{p.Critical, models.ThreatCritical},
		{p.High, models.ThreatHigh},
		{p.Medium, models.ThreatMedium},
		{p.Low, models.ThreatLow},
	}
	out := all[:0]
	for _, t := range all {
		if t.cut > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Classify returns the threat level for severity.
func (p ThresholdProfile) Classify(severity float64) models.ThreatLevel {
	for _, t := range p.tiers() {
		if severity >= t.cut {
			return t.level
		}
	}
	return p.Floor
}

// Validate checks that enabled cut-offs strictly decrease from CRITICAL to
// LOW and that Floor ranks below the lowest enabled tier.
func (p ThresholdProfile) Validate() error {
	ts := p.tiers()
	if len(ts) == 0 {
		return fmt.Errorf("profile %q: no tiers enabled", p.Name)
	}
	for i := 1; i < len(ts); i++ {
		if ts[i].cut >= ts[i-1].cut {
			return fmt.Errorf("profile %q: %s cut-off %v must be below %s cut-off %v",
				p.Name, ts[i].level, ts[i].cut, ts[i-1].level, ts[i-1].cut)
		}
	}
	if !p.Floor.Valid() {
		return fmt.Errorf("profile %q: invalid floor %q", p.Name, p.Floor)
	}
	if lowest := ts[len(ts)-1].level; p.Floor.Rank() >= lowest.Rank() {
		return fmt.Errorf("profile %q: floor %s must rank below %s", p.Name, p.Floor, lowest)
	}
	return nil
}
