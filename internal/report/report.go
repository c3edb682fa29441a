// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package report composes one threat report from a window snapshot: the
// coordination clusters, influencer ranking, trend anomalies, trending rule
// patterns, rule statistics and a short list of recommendations.
//
// Generate is idempotent for a fixed window and trend store. A cancelled run
// returns the context error; counter increments already applied by the
// ingest path are left in place.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/campaignwatch/internal/coordination"
	"github.com/tomtom215/campaignwatch/internal/influence"
	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/pipeline"
	"github.com/tomtom215/campaignwatch/internal/rules"
)

// Window is the read side of pipeline.Window.
type Window interface {
	Snapshot() pipeline.Snapshot
}

// AnomalySource is satisfied by *anomaly.Detector.
type AnomalySource interface {
	Detect(ctx context.Context) ([]models.AnomalyRecord, error)
}

type Config struct {
	TopCampaigns   int `koanf:"top_campaigns" validate:"gte=1"`
	TopInfluencers int `koanf:"top_influencers" validate:"gte=1"`
	TopKeywords    int `koanf:"top_keywords" validate:"gte=1"`

	TrendScoreFactor float64 `koanf:"trend_score_factor" validate:"gt=0"`
	// InfluencerThreshold is the score above which an author counts in the
	// summary; HighInfluenceThreshold triggers a monitoring recommendation.
	InfluencerThreshold    float64 `koanf:"influencer_threshold" validate:"gte=0"`
	HighInfluenceThreshold float64 `koanf:"high_influence_threshold" validate:"gtefield=InfluencerThreshold"`

	Interval time.Duration `koanf:"interval" validate:"gt=0"`
}

func DefaultConfig() Config {
	return Config{
		TopCampaigns:           10,
		TopInfluencers:         20,
		TopKeywords:            10,
		TrendScoreFactor:       10,
		InfluencerThreshold:    1000,
		HighInfluenceThreshold: 5000,
		Interval:               15 * time.Minute,
	}
}

type Summary struct {
	TotalDetections      int `json:"total_detections"`
	TotalAlerts          int `json:"total_alerts"`
	CoordinatedCampaigns int `json:"coordinated_campaigns"`
	TopInfluencers       int `json:"top_influencers"`
	Anomalies            int `json:"anomalies"`
}

type TrendingKeyword struct {
	Keyword    string  `json:"keyword"`
	Mentions   int     `json:"mentions"`
	TrendScore float64 `json:"trend_score"`
}

type Report struct {
	ID                string                     `json:"id"`
	GeneratedAt       time.Time                  `json:"generated_at"`
	Summary           Summary                    `json:"summary"`
	PlatformBreakdown map[string]int             `json:"platform_breakdown"`
	ThreatBreakdown   map[models.ThreatLevel]int `json:"threat_level_breakdown"`
	Campaigns         []models.Cluster           `json:"coordinated_campaigns"`
	Influencers       []models.Influencer        `json:"top_influencers"`
	Anomalies         []models.AnomalyRecord     `json:"anomalies"`
	Alerts            []models.Alert             `json:"recent_alerts"`
	TrendingKeywords  []TrendingKeyword          `json:"trending_keywords"`
	Recommendations   []string                   `json:"recommendations"`
	RuleAnalytics     *rules.Analytics           `json:"rule_analytics,omitempty"`
	// Warnings lists collaborators that failed during this run.
	Warnings []string `json:"warnings,omitempty"`
}

type Aggregator struct {
	config    Config
	detector  *coordination.Detector
	ranker    *influence.Ranker
	anomalies AnomalySource
	rules     rules.Store
	latest    atomic.Pointer[Report]
	now       func() time.Time
}

// NewAggregator wires the report collaborators. anomalies and ruleStore may
// be nil, in which case those sections are left empty.
func NewAggregator(cfg Config, detector *coordination.Detector, ranker *influence.Ranker, anomalies AnomalySource, ruleStore rules.Store) *Aggregator {
	return &Aggregator{
		config:    cfg,
		detector:  detector,
		ranker:    ranker,
		anomalies: anomalies,
		rules:     ruleStore,
		now:       time.Now,
	}
}

// Latest returns the most recent successful report, or nil.
func (a *Aggregator) Latest() *Report {
	return a.latest.Load()
}

// Generate builds a report from a snapshot of w.
func (a *Aggregator) Generate(ctx context.Context, w Window) (_ *Report, err error) {
	start := time.Now()
	defer func() { metrics.RecordReport(time.Since(start), err) }()

	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.Ctx(ctx)

	snap := w.Snapshot()
	items := snap.Items

	r := &Report{
		ID:                runID,
		GeneratedAt:       a.now().UTC(),
		PlatformBreakdown: make(map[string]int),
		ThreatBreakdown:   make(map[models.ThreatLevel]int),
		Alerts:            snap.Alerts,
	}
	for i := range items {
		r.PlatformBreakdown[items[i].Platform]++
		r.ThreatBreakdown[items[i].ThreatLevel]++
	}

	clusters, err := a.detector.Detect(ctx, items)
	switch {
	case errors.Is(err, coordination.ErrWindowTooLarge):
		log.Warn().Err(err).Msg("Skipping coordination detection")
		r.Warnings = append(r.Warnings, err.Error())
	case err != nil:
		return nil, fmt.Errorf("coordination detection: %w", err)
	}
	rankCampaigns(clusters)

	influencers := a.ranker.Rank(items)

	if a.anomalies != nil {
		anomalies, err := a.anomalies.Detect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Msg("Anomaly detection failed, continuing without anomalies")
			r.Warnings = append(r.Warnings, "anomaly detection unavailable")
		}
		r.Anomalies = anomalies
	}

	if a.rules != nil {
		analytics, err := rules.BuildAnalytics(ctx, a.rules)
		if err != nil {
			log.Warn().Err(err).Msg("Rule analytics failed, continuing without them")
			r.Warnings = append(r.Warnings, "rule analytics unavailable")
		} else {
			r.RuleAnalytics = analytics
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.Summary = Summary{
		TotalDetections:      len(items),
		TotalAlerts:          len(snap.Alerts),
		CoordinatedCampaigns: len(clusters),
		TopInfluencers:       countAbove(influencers, a.config.InfluencerThreshold),
		Anomalies:            len(r.Anomalies),
	}
	r.Campaigns = head(clusters, a.config.TopCampaigns)
	r.Influencers = head(influencers, a.config.TopInfluencers)
	r.TrendingKeywords = a.trending(items)
	r.Recommendations = a.recommend(items, clusters, influencers)

	a.latest.Store(r)
	log.Info().
		Int("detections", r.Summary.TotalDetections).
		Int("campaigns", r.Summary.CoordinatedCampaigns).
		Int("anomalies", r.Summary.Anomalies).
		Dur("duration", time.Since(start)).
		Msg("Report generated")
	return r, nil
}

// rankCampaigns orders clusters by threat tier, then size. Detection order
// breaks ties.
func rankCampaigns(cs []models.Cluster) {
	sort.SliceStable(cs, func(i, j int) bool {
		ri, rj := cs[i].ThreatLevel.Rank(), cs[j].ThreatLevel.Rank()
		if ri != rj {
			return ri > rj
		}
		return cs[i].Size() > cs[j].Size()
	})
}

func (a *Aggregator) trending(items []models.ScoredItem) []TrendingKeyword {
	counts := make(map[string]int)
	for i := range items {
		for _, m := range items[i].Matches {
			counts[m.Pattern]++
		}
	}
	out := make([]TrendingKeyword, 0, len(counts))
	for k, n := range counts {
		out = append(out, TrendingKeyword{Keyword: k, Mentions: n, TrendScore: float64(n) * a.config.TrendScoreFactor})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Keyword < out[j].Keyword
	})
	return head(out, a.config.TopKeywords)
}

func (a *Aggregator) recommend(items []models.ScoredItem, clusters []models.Cluster, influencers []models.Influencer) []string {
	recs := []string{}

	critical := 0
	platforms := make(map[string]int)
	for i := range items {
		if items[i].ThreatLevel == models.ThreatCritical {
			critical++
		}
		platforms[items[i].Platform]++
	}
	if critical > 0 {
		recs = append(recs, fmt.Sprintf("Immediate action required: %d critical threat posts detected", critical))
	}

	highCampaigns := 0
	for i := range clusters {
		if clusters[i].ThreatLevel.AtLeast(models.ThreatHigh) {
			highCampaigns++
		}
	}
	if highCampaigns > 0 {
		recs = append(recs, fmt.Sprintf("Investigate %d high-threat coordinated campaigns", highCampaigns))
	}

	if n := countAbove(influencers, a.config.HighInfluenceThreshold); n > 0 {
		recs = append(recs, fmt.Sprintf("Monitor %d high-influence accounts spreading anti-India content", n))
	}

	if len(platforms) > 0 {
		top, topN := "", -1
		for p, n := range platforms {
			if n > topN || (n == topN && p < top) {
				top, topN = p, n
			}
		}
		recs = append(recs, fmt.Sprintf("Focus monitoring efforts on %s (%d detections)", top, topN))
	}
	return recs
}

func countAbove(influencers []models.Influencer, threshold float64) int {
	n := 0
	for i := range influencers {
		if influencers[i].InfluenceScore > threshold {
			n++
		}
	}
	return n
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
