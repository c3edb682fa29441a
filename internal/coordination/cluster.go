// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package coordination

import (
	"sort"

	"github.com/tomtom215/campaignwatch/internal/models"
)

// buildCluster summarises the member items of one cluster.
func buildCluster(kind models.ClusterType, feature string, items []models.ScoredItem, members []int) models.Cluster {
	c := models.Cluster{
		Type:                  kind,
		DistinguishingFeature: feature,
		MemberIDs:             make([]string, 0, len(members)),
	}

	authors := make(map[string]struct{})
	platforms := make(map[string]struct{})
	levels := make([]models.ThreatLevel, 0, len(members))

	for _, m := range members {
		it := &items[m]
		c.MemberIDs = append(c.MemberIDs, it.ID)
		if it.Author != "" {
			authors[it.Author] = struct{}{}
		}
		if it.Platform != "" {
			platforms[it.Platform] = struct{}{}
		}
		levels = append(levels, it.ThreatLevel)

		if ts := it.Timestamp; !ts.IsZero() {
			if c.FirstSeen.IsZero() || ts.Before(c.FirstSeen) {
				c.FirstSeen = ts
			}
			if ts.After(c.LastSeen) {
				c.LastSeen = ts
			}
		}
	}

	c.Authors = sortedKeys(authors)
	c.UniqueAuthorCount = len(c.Authors)
	c.Platforms = sortedKeys(platforms)
	c.ThreatLevel = ClusterThreat(levels)
	if !c.FirstSeen.IsZero() {
		c.TimeSpan = c.LastSeen.Sub(c.FirstSeen)
	}
	return c
}

// ClusterThreat averages member tiers (LOW=1 .. CRITICAL=4, NONE counted as
// LOW) and buckets the mean: >=3.5 CRITICAL, >=2.5 HIGH, >=1.5 MEDIUM,
// else LOW.
func ClusterThreat(levels []models.ThreatLevel) models.ThreatLevel {
	if len(levels) == 0 {
		return models.ThreatLow
	}
	sum := 0
	for _, l := range levels {
		sum += max(l.Rank(), 1)
	}
	avg := float64(sum) / float64(len(levels))
	switch {
	case avg >= 3.5:
		return models.ThreatCritical
	case avg >= 2.5:
		return models.ThreatHigh
	case avg >= 1.5:
		return models.ThreatMedium
	default:
		return models.ThreatLow
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
