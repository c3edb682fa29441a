// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package models

import (
	"strings"
	"time"
)

// Engagement holds the raw interaction counters reported by a platform.
type Engagement struct {
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Retweets int64 `json:"retweets"`
	Views    int64 `json:"views"`
}

// Interactions returns likes + shares + comments + retweets. Views are a
// reach measure and are not counted as engagement.
func (e Engagement) Interactions() int64 {
	return e.Likes + e.Shares + e.Comments + e.Retweets
}

// Sanitized returns a copy with negative counters clamped to zero.
func (e Engagement) Sanitized() Engagement {
	clamp := func(v int64) int64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return Engagement{
		Likes:    clamp(e.Likes),
		Shares:   clamp(e.Shares),
		Comments: clamp(e.Comments),
		Retweets: clamp(e.Retweets),
		Views:    clamp(e.Views),
	}
}

// ContentItem is one collected post. The natural key is (Platform, ID).
type ContentItem struct {
	ID         string     `json:"id" validate:"required"`
	Platform   string     `json:"platform" validate:"required"`
	Title      string     `json:"title,omitempty"`
	Body       string     `json:"body"`
	Author     string     `json:"author"`
	Timestamp  time.Time  `json:"timestamp"`
	Engagement Engagement `json:"engagement"`
	Hashtags   []string   `json:"hashtags,omitempty"`
	Mentions   []string   `json:"mentions,omitempty"`
	URL        string     `json:"url,omitempty"`
}

// Text returns the title and body joined by a single space, which is the
// input the scorer matches against.
func (c *ContentItem) Text() string {
	if c.Title == "" {
		return c.Body
	}
	if c.Body == "" {
		return c.Title
	}
	return c.Title + " " + c.Body
}

// Key returns the natural key used for upserts.
func (c *ContentItem) Key() string {
	return strings.ToLower(c.Platform) + ":" + c.ID
}

// RuleMatch records one distinct rule that matched an item.
type RuleMatch struct {
	RuleID   int64    `json:"rule_id"`
	Pattern  string   `json:"pattern"`
	Kind     RuleKind `json:"kind"`
	Category string   `json:"category"`
	Weight   float64  `json:"weight"`
}

// ScoreResult is the enrichment the content scorer attaches to an item.
type ScoreResult struct {
	Matches        []RuleMatch `json:"matched_rules"`
	SeverityScore  float64     `json:"severity_score"`
	ThreatLevel    ThreatLevel `json:"threat_level"`
	SentimentScore float64     `json:"sentiment_score"`
	Relevant       bool        `json:"relevant"`
	Language       string      `json:"language,omitempty"`
	Categories     []string    `json:"categories,omitempty"`
}

// MatchesOfKind returns the matches of a single rule kind, in match order.
func (s *ScoreResult) MatchesOfKind(kind RuleKind) []RuleMatch {
	var out []RuleMatch
	for _, m := range s.Matches {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ScoredItem pairs an unchanged ContentItem with its score.
type ScoredItem struct {
	ContentItem
	ScoreResult
}
