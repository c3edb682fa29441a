// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package scoring scores one content item against the active rule snapshot.
//
// A score is the sum of the weights of every distinct matching rule; the
// configured ThresholdProfile turns it into a threat level. Sentiment comes
// from a sentiment.Analyzer and falls back to neutral on any failure. Each
// matched rule's detection count is incremented once per Score call; an
// increment failure is logged and never fails the item.
package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/rules"
	"github.com/tomtom215/campaignwatch/internal/sentiment"
)

// Config configures a Scorer.
type Config struct {
	// Profile selects Standard or Light.
	Profile  string           `koanf:"profile" validate:"oneof=standard light"`
	Standard ThresholdProfile `koanf:"standard"`
	Light    ThresholdProfile `koanf:"light"`

	// An item with no rule match is still relevant when its sentiment is
	// below RelevanceSentiment and its severity above RelevanceSeverity.
	RelevanceSentiment float64 `koanf:"relevance_sentiment" validate:"gte=-1,lte=1"`
	RelevanceSeverity  float64 `koanf:"relevance_severity" validate:"gte=0"`

	// ExtractEntities fills hashtags, mentions and URL from the text when
	// the collector left them empty.
	ExtractEntities bool `koanf:"extract_entities"`
}

// DefaultConfig returns scoring defaults.
func DefaultConfig() Config {
	return Config{
		Profile:            ProfileStandard,
		Standard:           StandardProfile(),
		Light:              LightProfile(),
		RelevanceSentiment: -0.3,
		RelevanceSeverity:  3,
		ExtractEntities:    true,
	}
}

// SelectedProfile returns the profile named by Profile.
func (c Config) SelectedProfile() (ThresholdProfile, error) {
	var p ThresholdProfile
	switch c.Profile {
	case ProfileStandard:
		p = c.Standard
	case ProfileLight:
		p = c.Light
	default:
		return p, fmt.Errorf("unknown threshold profile %q", c.Profile)
	}
	if p.Name == "" {
		p.Name = c.Profile
	}
	return p, p.Validate()
}

// SnapshotSource supplies the rule snapshot to score against.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*rules.Snapshot, error)
}

// DetectionRecorder counts rule matches.
type DetectionRecorder interface {
	RecordDetection(ctx context.Context, id int64, at time.Time) error
}

// Scorer scores content items. It is safe for concurrent use.
type Scorer struct {
	config   Config
	profile  ThresholdProfile
	source   SnapshotSource
	recorder DetectionRecorder
	analyzer sentiment.Analyzer
	now      func() time.Time
}

// NewScorer creates a Scorer. recorder may be nil to skip detection counts;
// analyzer may be nil for neutral sentiment.
func NewScorer(cfg Config, source SnapshotSource, recorder DetectionRecorder, analyzer sentiment.Analyzer) (*Scorer, error) {
	profile, err := cfg.SelectedProfile()
	if err != nil {
		return nil, err
	}
	return &Scorer{
		config:   cfg,
		profile:  profile,
		source:   source,
		recorder: recorder,
		analyzer: analyzer,
		now:      time.Now,
	}, nil
}

// Profile returns the active threshold profile.
func (s *Scorer) Profile() ThresholdProfile {
	return s.profile
}

// Score returns item enriched with its score. The input is not modified.
// An error is returned only when no rule snapshot can be obtained.
func (s *Scorer) Score(ctx context.Context, item models.ContentItem) (models.ScoredItem, error) {
	start := time.Now()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return models.ScoredItem{}, fmt.Errorf("load rule snapshot: %w", err)
	}

	text := item.Text()
	matches := snap.Match(text)

	var severity float64
	for _, m := range matches {
		severity += m.Weight
	}
	sent := sentiment.Score(ctx, s.analyzer, text)

	result := models.ScoreResult{
		Matches:        matches,
		SeverityScore:  severity,
		ThreatLevel:    s.profile.Classify(severity),
		SentimentScore: sent,
		Relevant:       len(matches) > 0 || (sent < s.config.RelevanceSentiment && severity > s.config.RelevanceSeverity),
		Language:       DetectLanguage(text),
		Categories:     categories(matches),
	}

	if s.config.ExtractEntities {
		if len(item.Hashtags) == 0 {
			item.Hashtags = ExtractHashtags(text)
		}
		if len(item.Mentions) == 0 {
			item.Mentions = ExtractMentions(text)
		}
		if item.URL == "" {
			if urls := ExtractURLs(text); len(urls) > 0 {
				item.URL = urls[0]
			}
		}
	}

	s.recordDetections(ctx, &item, matches)

	metrics.RecordItemScored(item.Platform, string(result.ThreatLevel), result.Relevant, time.Since(start))
	return models.ScoredItem{ContentItem: item, ScoreResult: result}, nil
}

func (s *Scorer) recordDetections(ctx context.Context, item *models.ContentItem, matches []models.RuleMatch) {
	if s.recorder == nil || len(matches) == 0 {
		return
	}
	at := s.now()
	for _, m := range matches {
		err := s.recorder.RecordDetection(ctx, m.RuleID, at)
		metrics.RecordRuleDetection(string(m.Kind), err)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Int64("rule_id", m.RuleID).
				Str("item", item.Key()).
				Msg("failed to record rule detection")
		}
	}
}

func categories(matches []models.RuleMatch) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		out = append(out, m.Category)
	}
	sort.Strings(out)
	return out
}
