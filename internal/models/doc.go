// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package models defines the data structures shared by the campaign detection
engine.

Model Categories:

1. Content:
  - ContentItem: a single collected post with its raw engagement counters
  - Engagement: likes, shares, comments, retweets and views
  - ScoreResult: the enrichment attached by the content scorer

2. Rules:
  - Rule: a weighted keyword, hashtag or regex pattern with a category
  - RuleKind: keyword, hashtag or regex

3. Detection output:
  - Cluster: a coordinated group of items found by one coordination detector
  - Influencer: per-author aggregate used for ranking
  - AnomalyRecord: an hourly mention count that deviates from its baseline
  - HourlyCounter: the persisted hourly trend counter consumed by the
    anomaly detector
  - Alert: a single item that crossed an alert condition

4. API:
  - APIResponse, Metadata, APIError: the HTTP response envelope

ThreatLevel is the ordinal tier shared by every component. Detectors never
mutate a ContentItem; the scorer returns a ScoredItem that embeds the
original item unchanged.
*/
package models
