// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package models

import "time"

// ClusterType identifies which coordination signal produced a cluster.
type ClusterType string

const (
	ClusterHashtag    ClusterType = "hashtag"
	ClusterSimilarity ClusterType = "similarity"
	ClusterTiming     ClusterType = "timing"
)

// Cluster is a group of items that share a coordination signal across
// several authors. Clusters are recomputed on every run and carry no stable
// identity.
type Cluster struct {
	Type                  ClusterType   `json:"type"`
	MemberIDs             []string      `json:"member_ids"`
	DistinguishingFeature string        `json:"distinguishing_feature"`
	Authors               []string      `json:"authors"`
	UniqueAuthorCount     int           `json:"unique_author_count"`
	Platforms             []string      `json:"platforms"`
	ThreatLevel           ThreatLevel   `json:"threat_level"`
	FirstSeen             time.Time     `json:"first_seen"`
	LastSeen              time.Time     `json:"last_seen"`
	TimeSpan              time.Duration `json:"time_span"`
}

// Size returns the number of member items.
func (c *Cluster) Size() int {
	return len(c.MemberIDs)
}

// Influencer is the per-author aggregate used for ranking.
type Influencer struct {
	AuthorID        string   `json:"author_id"`
	Platforms       []string `json:"platforms"`
	PostCount       int      `json:"post_count"`
	TotalEngagement int64    `json:"total_engagement"`
	AvgEngagement   float64  `json:"avg_engagement"`
	ViralPostCount  int      `json:"viral_post_count"`
	ThreatScore     int      `json:"threat_score"`
	InfluenceScore  float64  `json:"influence_score"`
	ContentSamples  []string `json:"content_samples,omitempty"`
}

// HourlyCounter is one persisted trend bucket keyed by
// (Key, Platform, Hour).
type HourlyCounter struct {
	Key           string    `json:"key"`
	Platform      string    `json:"platform"`
	Hour          time.Time `json:"hour"`
	MentionCount  int64     `json:"mention_count"`
	EngagementSum int64     `json:"engagement_sum"`
	UniqueUsers   int64     `json:"unique_users"`
}

// AnomalyRecord is an hourly count that deviates from its baseline.
type AnomalyRecord struct {
	Key           string      `json:"key"`
	Platform      string      `json:"platform"`
	HourBucket    time.Time   `json:"hour_bucket"`
	ObservedCount int64       `json:"observed_count"`
	BaselineMean  float64     `json:"baseline_mean"`
	BaselineStd   float64     `json:"baseline_std"`
	ZScore        float64     `json:"z_score"`
	ThreatLevel   ThreatLevel `json:"threat_level"`
	EngagementSum int64       `json:"engagement_sum"`
	UniqueUsers   int64       `json:"unique_users"`
}

// Alert is raised for a single scored item that crosses an alert condition.
type Alert struct {
	ContentID   string      `json:"content_id"`
	Platform    string      `json:"platform"`
	Author      string      `json:"author"`
	ThreatLevel ThreatLevel `json:"threat_level"`
	Reasons     []string    `json:"reasons"`
	Preview     string      `json:"content_preview"`
	URL         string      `json:"url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
