// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package models

import "strings"

// ThreatLevel is the ordinal threat tier derived from a severity score.
type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "NONE"
	ThreatLow      ThreatLevel = "LOW"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatCritical ThreatLevel = "CRITICAL"
)

// AllThreatLevels lists the tiers from lowest to highest.
var AllThreatLevels = []ThreatLevel{ThreatNone, ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical}

// Rank returns the ordinal position of the tier: NONE=0, LOW=1 ... CRITICAL=4.
// Unknown values rank as NONE.
func (t ThreatLevel) Rank() int {
	switch t {
	case ThreatLow:
		return 1
	case ThreatMedium:
		return 2
	case ThreatHigh:
		return 3
	case ThreatCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether t is one of the known tiers.
func (t ThreatLevel) Valid() bool {
	for _, l := range AllThreatLevels {
		if l == t {
			return true
		}
	}
	return false
}

// AtLeast reports whether t is the same tier as other or higher.
func (t ThreatLevel) AtLeast(other ThreatLevel) bool {
	return t.Rank() >= other.Rank()
}

// ParseThreatLevel converts a case-insensitive tier name. Unknown names map
// to ThreatNone and ok=false.
func ParseThreatLevel(s string) (ThreatLevel, bool) {
	t := ThreatLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return ThreatNone, false
	}
	return t, true
}
