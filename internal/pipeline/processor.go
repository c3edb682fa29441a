// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/campaignwatch/internal/engagement"
	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/store"
)

const previewRunes = 200

// ItemScorer is satisfied by *scoring.Scorer.
type ItemScorer interface {
	Score(ctx context.Context, item models.ContentItem) (models.ScoredItem, error)
}

// Processor takes one raw item through scoring, persistence, trend counting
// and alerting.
type Processor struct {
	config     Config
	scorer     ItemScorer
	store      store.Store
	engagement *engagement.Scorer
	window     *Window
	now        func() time.Time
}

func NewProcessor(cfg Config, scorer ItemScorer, st store.Store, eng *engagement.Scorer, window *Window) *Processor {
	return &Processor{
		config:     cfg,
		scorer:     scorer,
		store:      st,
		engagement: eng,
		window:     window,
		now:        time.Now,
	}
}

// Window returns the window the processor appends to.
func (p *Processor) Window() *Window {
	return p.window
}

// Process scores item and applies its side effects. Only a scoring failure
// is returned; persistence and trend errors are logged and counted.
func (p *Processor) Process(ctx context.Context, item models.ContentItem) (models.ScoredItem, *models.Alert, error) {
	scored, err := p.scorer.Score(ctx, item)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("score").Inc()
		return models.ScoredItem{}, nil, fmt.Errorf("score %s: %w", item.Key(), err)
	}
	log := logging.Ctx(ctx)

	if err := p.store.UpsertItem(ctx, scored); err != nil {
		metrics.IngestErrors.WithLabelValues("persist").Inc()
		log.Warn().Err(err).Str("item", scored.Key()).Msg("Failed to persist scored item")
	}

	if !scored.Relevant {
		return scored, nil, nil
	}

	p.countTrends(ctx, &scored)

	alert := p.checkAlert(&scored)
	if alert != nil {
		metrics.AlertsRaised.WithLabelValues(string(alert.ThreatLevel)).Inc()
		log.Info().
			Str("item", scored.Key()).
			Str("author", scored.Author).
			Str("threat_level", string(scored.ThreatLevel)).
			Strs("reasons", alert.Reasons).
			Msg("Alert raised")
	}
	p.window.Add(scored, alert)
	return scored, alert, nil
}

// countTrends increments the hourly counter of every matched rule pattern.
// Items without a timestamp count in the hour they were processed.
func (p *Processor) countTrends(ctx context.Context, item *models.ScoredItem) {
	at := item.Timestamp
	if at.IsZero() {
		at = p.now()
	}
	eng := item.Engagement.Sanitized().Interactions()

	for _, m := range item.Matches {
		d := store.TrendDelta{
			Key:        m.Pattern,
			Platform:   item.Platform,
			Hour:       at,
			Mentions:   1,
			Engagement: eng,
			Author:     item.Author,
		}
		if err := p.store.IncrementTrend(ctx, d); err != nil {
			metrics.IngestErrors.WithLabelValues("trend").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("key", m.Pattern).Msg("Failed to increment trend counter")
		}
	}
}

func (p *Processor) checkAlert(item *models.ScoredItem) *models.Alert {
	var reasons []string
	if item.ThreatLevel.AtLeast(p.config.AlertThreatLevel) {
		reasons = append(reasons, fmt.Sprintf("High threat level: %s", item.ThreatLevel))
	}
	if p.config.AlertOnViral && p.engagement.IsViral(item.Engagement.Sanitized()) {
		reasons = append(reasons, "Viral engagement detected")
	}
	if item.SeverityScore > p.config.AlertSeverity {
		reasons = append(reasons, fmt.Sprintf("High severity score: %.1f", item.SeverityScore))
	}
	if len(reasons) == 0 {
		return nil
	}

	preview := []rune(item.Text())
	if len(preview) > previewRunes {
		preview = preview[:previewRunes]
	}
	return &models.Alert{
		ContentID:   item.ID,
		Platform:    item.Platform,
		Author:      item.Author,
		ThreatLevel: item.ThreatLevel,
		Reasons:     reasons,
		Preview:     string(preview),
		URL:         item.URL,
		CreatedAt:   p.now(),
	}
}
