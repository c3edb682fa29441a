// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package coordination finds groups of scored items that look coordinated:
// many authors pushing one hashtag on the same day, near-identical text, or
// a burst of posts inside one hour bucket.
//
// The three sub-detectors are independent and non-exclusive; an item may
// belong to clusters of several types. Detectors read the window and never
// modify it. A cluster is reported only when it meets its type's minimum
// member and distinct-author counts. Items with an empty author never count
// towards the distinct-author minimum.
package coordination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
)

// ErrWindowTooLarge is returned when the window exceeds MaxWindowSize.
var ErrWindowTooLarge = errors.New("coordination window too large")

// Config holds the cluster thresholds.
type Config struct {
	// MinItems below which Detect returns nothing.
	MinItems int `koanf:"min_items" validate:"gte=1"`

	HashtagMinItems   int `koanf:"hashtag_min_items" validate:"gte=1"`
	HashtagMinAuthors int `koanf:"hashtag_min_authors" validate:"gte=1"`

	// SimilarityThreshold must be strictly exceeded.
	SimilarityThreshold  float64 `koanf:"similarity_threshold" validate:"gt=0,lte=1"`
	SimilarityMinItems   int     `koanf:"similarity_min_items" validate:"gte=2"`
	SimilarityMinAuthors int     `koanf:"similarity_min_authors" validate:"gte=1"`

	TimingBucket     time.Duration `koanf:"timing_bucket" validate:"gt=0"`
	TimingMinItems   int           `koanf:"timing_min_items" validate:"gte=1"`
	TimingMinAuthors int           `koanf:"timing_min_authors" validate:"gte=1"`

	// MaxWindowSize bounds the O(n²) similarity pass.
	MaxWindowSize int `koanf:"max_window_size" validate:"gte=3"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinItems:             3,
		HashtagMinItems:      5,
		HashtagMinAuthors:    3,
		SimilarityThreshold:  0.8,
		SimilarityMinItems:   3,
		SimilarityMinAuthors: 2,
		TimingBucket:         time.Hour,
		TimingMinItems:       5,
		TimingMinAuthors:     3,
		MaxWindowSize:        5000,
	}
}

// Detector runs the coordination sub-detectors.
type Detector struct {
	config Config
}

// NewDetector creates a Detector.
func NewDetector(cfg Config) *Detector {
	return &Detector{config: cfg}
}

// Detect returns the clusters found in items: hashtag clusters first, then
// similarity, then timing, each ordered by the position of its first member.
// Fewer than MinItems items yields no clusters. The context is checked
// between sub-detectors and inside the similarity pass.
func (d *Detector) Detect(ctx context.Context, items []models.ScoredItem) ([]models.Cluster, error) {
	if len(items) < d.config.MinItems {
		return nil, nil
	}
	if len(items) > d.config.MaxWindowSize {
		return nil, fmt.Errorf("%w: %d items exceeds limit of %d", ErrWindowTooLarge, len(items), d.config.MaxWindowSize)
	}

	var out []models.Cluster
	steps := []struct {
		name string
		run  func(context.Context, []models.ScoredItem) ([]models.Cluster, error)
	}{
		{string(models.ClusterHashtag), d.hashtagClusters},
		{string(models.ClusterSimilarity), d.similarityClusters},
		{string(models.ClusterTiming), d.timingClusters},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := step.run(ctx, items)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			metrics.ClustersDetected.WithLabelValues(step.name).Add(float64(len(found)))
		}
		out = append(out, found...)
	}

	logging.Ctx(ctx).Debug().
		Int("items", len(items)).
		Int("clusters", len(out)).
		Msg("coordination detection complete")
	return out, nil
}

// group is a candidate cluster: member positions in window order.
type group struct {
	feature string
	members []int
}

// hashtagClusters groups items by (UTC day, case-folded hashtag).
func (d *Detector) hashtagClusters(_ context.Context, items []models.ScoredItem) ([]models.Cluster, error) {
	groups := make(map[string]*group)
	var order []*group

	for i := range items {
		it := &items[i]
		if it.Timestamp.IsZero() {
			continue
		}
		day := it.Timestamp.UTC().Format(time.DateOnly)
		seen := make(map[string]struct{}, len(it.Hashtags))
		for _, raw := range it.Hashtags {
			tag := normalizeHashtag(raw)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}

			key := day + "|" + tag
			g, ok := groups[key]
			if !ok {
				g = &group{feature: tag}
				groups[key] = g
				order = append(order, g)
			}
			g.members = append(g.members, i)
		}
	}

	return d.emit(models.ClusterHashtag, items, order, d.config.HashtagMinItems, d.config.HashtagMinAuthors), nil
}

func normalizeHashtag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || tag == "#" {
		return ""
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

// timingClusters groups items into fixed, non-overlapping buckets by
// truncating their timestamp.
func (d *Detector) timingClusters(_ context.Context, items []models.ScoredItem) ([]models.Cluster, error) {
	groups := make(map[int64]*group)
	var order []*group

	for i := range items {
		ts := items[i].Timestamp
		if ts.IsZero() {
			continue
		}
		bucket := ts.UTC().Truncate(d.config.TimingBucket)
		key := bucket.Unix()
		g, ok := groups[key]
		if !ok {
			g = &group{feature: bucket.Format(time.RFC3339)}
			groups[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, i)
	}

	return d.emit(models.ClusterTiming, items, order, d.config.TimingMinItems, d.config.TimingMinAuthors), nil
}

// emit turns qualifying groups into clusters. groups must already be in
// first-member order, which holds when they are created during a forward
// scan of the window.
func (d *Detector) emit(kind models.ClusterType, items []models.ScoredItem, groups []*group, minItems, minAuthors int) []models.Cluster {
	var out []models.Cluster
	for _, g := range groups {
		if len(g.members) < minItems {
			continue
		}
		c := buildCluster(kind, g.feature, items, g.members)
		if c.UniqueAuthorCount < minAuthors {
			continue
		}
		out = append(out, c)
	}
	return out
}
