// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package models

import (
	"strings"
	"time"
)

// RuleKind identifies how a rule's pattern is matched.
type RuleKind string

const (
	// RuleKindKeyword matches a case-folded phrase by substring containment.
	RuleKindKeyword RuleKind = "keyword"

	// RuleKindHashtag matches a case-folded "#tag" by substring containment.
	RuleKindHashtag RuleKind = "hashtag"

	// RuleKindRegex matches a case-insensitive regular expression.
	RuleKindRegex RuleKind = "regex"
)

// Valid reports whether k is a known rule kind.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleKindKeyword, RuleKindHashtag, RuleKindRegex:
		return true
	}
	return false
}

// Rule is a weighted detection pattern.
type Rule struct {
	ID             int64      `json:"id"`
	Pattern        string     `json:"pattern"`
	Kind           RuleKind   `json:"kind"`
	Category       string     `json:"category"`
	Description    string     `json:"description,omitempty"`
	Weight         float64    `json:"weight"`
	DetectionCount int64      `json:"detection_count"`
	Active         bool       `json:"active"`
	TruePositives  int64      `json:"true_positives"`
	FalsePositives int64      `json:"false_positives"`
	LastDetected   *time.Time `json:"last_detected,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Seq            int64      `json:"seq"`
}

// Precision returns tp/(tp+fp), or 0 when no feedback has been recorded.
func (r *Rule) Precision() float64 {
	total := r.TruePositives + r.FalsePositives
	if total == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(total)
}

// NormalizePattern returns the identity form of a pattern for a kind.
// Keywords and hashtags are case-folded and trimmed; hashtags gain a leading
// '#'. Regex patterns are only trimmed.
func NormalizePattern(kind RuleKind, pattern string) string {
	p := strings.TrimSpace(pattern)
	switch kind {
	case RuleKindKeyword:
		return strings.ToLower(p)
	case RuleKindHashtag:
		p = strings.ToLower(p)
		if p != "" && !strings.HasPrefix(p, "#") {
			p = "#" + p
		}
		return p
	default:
		return p
	}
}

// RuleIdentity is the natural key of a rule.
func RuleIdentity(kind RuleKind, pattern string) string {
	return string(kind) + "\x00" + NormalizePattern(kind, pattern)
}
