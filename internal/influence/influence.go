// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package influence ranks authors in a report window by a weighted sum of
// their reach, virality, threat contribution and platform spread.
package influence

import (
	"sort"

	"github.com/tomtom215/campaignwatch/internal/engagement"
	"github.com/tomtom215/campaignwatch/internal/models"
)

type Config struct {
	EngagementFactor float64 `koanf:"engagement_factor" validate:"gte=0"`
	ViralBonus       float64 `koanf:"viral_bonus" validate:"gte=0"`
	ThreatFactor     float64 `koanf:"threat_factor" validate:"gte=0"`
	PlatformBonus    float64 `koanf:"platform_bonus" validate:"gte=0"`

	CriticalPoints int `koanf:"critical_points" validate:"gte=0"`
	HighPoints     int `koanf:"high_points" validate:"gte=0"`
	MediumPoints   int `koanf:"medium_points" validate:"gte=0"`

	// MaxSamples caps the content previews kept per author.
	MaxSamples int `koanf:"max_samples" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		EngagementFactor: 0.4,
		ViralBonus:       100,
		ThreatFactor:     10,
		PlatformBonus:    50,
		CriticalPoints:   10,
		HighPoints:       5,
		MediumPoints:     2,
		MaxSamples:       5,
	}
}

const sampleRunes = 100

type Ranker struct {
	config     Config
	engagement *engagement.Scorer
}

func NewRanker(cfg Config, eng *engagement.Scorer) *Ranker {
	return &Ranker{config: cfg, engagement: eng}
}

// ThreatPoints returns the per-post threat contribution of a tier.
func (r *Ranker) ThreatPoints(level models.ThreatLevel) int {
	switch level {
	case models.ThreatCritical:
		return r.config.CriticalPoints
	case models.ThreatHigh:
		return r.config.HighPoints
	case models.ThreatMedium:
		return r.config.MediumPoints
	default:
		return 0
	}
}

type aggregate struct {
	inf       models.Influencer
	platforms map[string]struct{}
}

// Rank aggregates items by author and returns influencers sorted by score
// descending, then author ascending. Items without an author are ignored.
func (r *Ranker) Rank(items []models.ScoredItem) []models.Influencer {
	byAuthor := make(map[string]*aggregate)
	for i := range items {
		it := &items[i]
		if it.Author == "" {
			continue
		}
		agg, ok := byAuthor[it.Author]
		if !ok {
			agg = &aggregate{
				inf:       models.Influencer{AuthorID: it.Author},
				platforms: make(map[string]struct{}),
			}
			byAuthor[it.Author] = agg
		}

		eng := it.Engagement.Sanitized()
		agg.inf.PostCount++
		agg.inf.TotalEngagement += eng.Interactions()
		if it.Platform != "" {
			agg.platforms[it.Platform] = struct{}{}
		}
		if r.engagement.IsViral(eng) {
			agg.inf.ViralPostCount++
		}
		agg.inf.ThreatScore += r.ThreatPoints(it.ThreatLevel)
		if len(agg.inf.ContentSamples) < r.config.MaxSamples {
			agg.inf.ContentSamples = append(agg.inf.ContentSamples, sample(it.Text()))
		}
	}

	out := make([]models.Influencer, 0, len(byAuthor))
	for _, agg := range byAuthor {
		inf := agg.inf
		inf.Platforms = make([]string, 0, len(agg.platforms))
		for p := range agg.platforms {
			inf.Platforms = append(inf.Platforms, p)
		}
		sort.Strings(inf.Platforms)
		inf.AvgEngagement = float64(inf.TotalEngagement) / float64(inf.PostCount)
		inf.InfluenceScore = r.Score(inf)
		out = append(out, inf)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].InfluenceScore != out[j].InfluenceScore {
			return out[i].InfluenceScore > out[j].InfluenceScore
		}
		return out[i].AuthorID < out[j].AuthorID
	})
	return out
}

// Score computes the influence score of an aggregate.
func (r *Ranker) Score(inf models.Influencer) float64 {
	return float64(inf.TotalEngagement)*r.config.EngagementFactor +
		float64(inf.ViralPostCount)*r.config.ViralBonus +
		float64(inf.ThreatScore)*r.config.ThreatFactor +
		float64(len(inf.Platforms))*r.config.PlatformBonus
}

func sample(text string) string {
	rs := []rune(text)
	if len(rs) > sampleRunes {
		rs = rs[:sampleRunes]
	}
	return string(rs)
}
