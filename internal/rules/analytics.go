// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"sort"

	"github.com/tomtom215/campaignwatch/internal/models"
)

// RuleStats is a rule with its review precision.
type RuleStats struct {
	models.Rule
	Precision float64 `json:"precision"`
}

// CategoryStats summarises the active rules of one category.
type CategoryStats struct {
	Category   string  `json:"category"`
	Rules      int     `json:"count"`
	AvgWeight  float64 `json:"avg_weight"`
	Detections int64   `json:"detections"`
}

// Analytics describes rule performance.
type Analytics struct {
	TotalRules       int             `json:"total_rules"`
	ActiveRules      int             `json:"active_rules"`
	TotalDetections  int64           `json:"total_detections"`
	TopRules         []RuleStats     `json:"top_rules"`
	Categories       []CategoryStats `json:"category_stats"`
	RecentDetections []models.Rule   `json:"recent_detections"`
}

// Analytics limits.
const (
	topRulesLimit   = 20
	recentRuleLimit = 10
)

// BuildAnalytics computes Analytics over every rule in store.
//
// TopRules holds active rules by detection count then precision, both
// descending. Categories covers active rules ordered by rule count
// descending. RecentDetections holds rules that have fired, most recent
// first.
func BuildAnalytics(ctx context.Context, store Store) (*Analytics, error) {
	all, err := store.All(ctx)
	if err != nil {
		return nil, err
	}

	a := &Analytics{TotalRules: len(all)}
	byCategory := make(map[string]*CategoryStats)
	weightSums := make(map[string]float64)

	for i := range all {
		r := &all[i]
		if r.LastDetected != nil {
			a.RecentDetections = append(a.RecentDetections, *r)
		}
		if !r.Active {
			continue
		}
		a.ActiveRules++
		a.TotalDetections += r.DetectionCount
		a.TopRules = append(a.TopRules, RuleStats{Rule: *r, Precision: r.Precision()})

		cs, ok := byCategory[r.Category]
		if !ok {
			cs = &CategoryStats{Category: r.Category}
			byCategory[r.Category] = cs
		}
		cs.Rules++
		cs.Detections += r.DetectionCount
		weightSums[r.Category] += r.Weight
	}

	sort.SliceStable(a.TopRules, func(i, j int) bool {
		x, y := &a.TopRules[i], &a.TopRules[j]
		if x.DetectionCount != y.DetectionCount {
			return x.DetectionCount > y.DetectionCount
		}
		return x.Precision > y.Precision
	})
	if len(a.TopRules) > topRulesLimit {
		a.TopRules = a.TopRules[:topRulesLimit]
	}

	for cat, cs := range byCategory {
		cs.AvgWeight = weightSums[cat] / float64(cs.Rules)
		a.Categories = append(a.Categories, *cs)
	}
	sort.Slice(a.Categories, func(i, j int) bool {
		x, y := a.Categories[i], a.Categories[j]
		if x.Rules != y.Rules {
			return x.Rules > y.Rules
		}
		return x.Category < y.Category
	})

	sort.SliceStable(a.RecentDetections, func(i, j int) bool {
		return a.RecentDetections[i].LastDetected.After(*a.RecentDetections[j].LastDetected)
	})
	if len(a.RecentDetections) > recentRuleLimit {
		a.RecentDetections = a.RecentDetections[:recentRuleLimit]
	}
	return a, nil
}
