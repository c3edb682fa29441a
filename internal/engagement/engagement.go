// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package engagement turns raw engagement counters into derived metrics:
// a weighted engagement total, engagement rate, virality, a viral flag and
// an advisory bot-suspicion score.
//
// Scoring is a pure function of the counters and the Config; nothing here
// is persisted.
package engagement

import (
	"math"

	"github.com/tomtom215/campaignwatch/internal/models"
)

// Config holds the weights and cut-offs used by the Scorer.
type Config struct {
	LikeWeight    float64 `json:"like_weight" koanf:"like_weight" validate:"gte=0"`
	ShareWeight   float64 `json:"share_weight" koanf:"share_weight" validate:"gte=0"`
	CommentWeight float64 `json:"comment_weight" koanf:"comment_weight" validate:"gte=0"`
	RetweetWeight float64 `json:"retweet_weight" koanf:"retweet_weight" validate:"gte=0"`

	// Viral when any one counter strictly exceeds its cut-off.
	ViralLikes    int64 `json:"viral_likes" koanf:"viral_likes" validate:"gt=0"`
	ViralShares   int64 `json:"viral_shares" koanf:"viral_shares" validate:"gt=0"`
	ViralComments int64 `json:"viral_comments" koanf:"viral_comments" validate:"gt=0"`

	// BotLikeShareRatio adds BotLikeSharePenalty when likes/max(shares,1) exceeds it.
	BotLikeShareRatio   float64 `json:"bot_like_share_ratio" koanf:"bot_like_share_ratio" validate:"gt=0"`
	BotLikeSharePenalty float64 `json:"bot_like_share_penalty" koanf:"bot_like_share_penalty" validate:"gte=0"`

	// BotCommentLikeRatio adds BotCommentLikePenalty when
	// comments/max(likes,1) is below it and likes exceed BotMinLikes.
	BotCommentLikeRatio   float64 `json:"bot_comment_like_ratio" koanf:"bot_comment_like_ratio" validate:"gt=0"`
	BotCommentLikePenalty float64 `json:"bot_comment_like_penalty" koanf:"bot_comment_like_penalty" validate:"gte=0"`
	BotMinLikes           int64   `json:"bot_min_likes" koanf:"bot_min_likes" validate:"gte=0"`

	// SuspiciousRatio is the bot score that must be exceeded to flag an item.
	SuspiciousRatio float64 `json:"suspicious_ratio" koanf:"suspicious_ratio" validate:"gte=0"`
}

// DefaultConfig returns the standard weights.
func DefaultConfig() Config {
	return Config{
		LikeWeight:            1.0,
		ShareWeight:           3.0,
		CommentWeight:         2.0,
		RetweetWeight:         2.5,
		ViralLikes:            1000,
		ViralShares:           500,
		ViralComments:         200,
		BotLikeShareRatio:     20,
		BotLikeSharePenalty:   0.3,
		BotCommentLikeRatio:   0.01,
		BotCommentLikePenalty: 0.2,
		BotMinLikes:           100,
		SuspiciousRatio:       0.3,
	}
}

// Ratios breaks engagement down per metric.
type Ratios struct {
	LikesPerShare    float64 `json:"likes_per_share"`
	CommentsPerLike  float64 `json:"comments_per_like"`
	SharesPerView    float64 `json:"shares_per_view"`
	RetweetsPerShare float64 `json:"retweets_per_share"`
}

// Metrics is the derived view of one item's engagement.
type Metrics struct {
	Weighted       float64 `json:"weighted_engagement"`
	EngagementRate float64 `json:"engagement_rate"`
	Virality       float64 `json:"virality_score"`
	IsViral        bool    `json:"is_viral"`
	BotScore       float64 `json:"bot_score"`
	Suspicious     bool    `json:"is_suspicious"`
	TotalRaw       int64   `json:"total_engagement"`
	Ratios         Ratios  `json:"ratios"`
}

// Scorer computes Metrics. It is immutable and safe for concurrent use.
type Scorer struct {
	config Config
}

// NewScorer creates a Scorer.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{config: cfg}
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() Config {
	return s.config
}

// Score derives Metrics from e. Negative counters are treated as zero.
func (s *Scorer) Score(e models.Engagement) Metrics {
	e = e.Sanitized()
	c := s.config

	weighted := float64(e.Likes)*c.LikeWeight +
		float64(e.Shares)*c.ShareWeight +
		float64(e.Comments)*c.CommentWeight +
		float64(e.Retweets)*c.RetweetWeight
	rate := weighted / float64(max(e.Views, 1))

	var virality float64
	if spread := e.Shares + e.Retweets; spread > 0 {
		virality = math.Log1p(float64(spread)) * rate
	}

	bot := s.botScore(e)

	return Metrics{
		Weighted:       weighted,
		EngagementRate: rate,
		Virality:       virality,
		IsViral:        s.IsViral(e),
		BotScore:       bot,
		Suspicious:     bot > c.SuspiciousRatio,
		TotalRaw:       e.Interactions(),
		Ratios: Ratios{
			LikesPerShare:    float64(e.Likes) / float64(max(e.Shares, 1)),
			CommentsPerLike:  float64(e.Comments) / float64(max(e.Likes, 1)),
			SharesPerView:    float64(e.Shares) / float64(max(e.Views, 1)),
			RetweetsPerShare: float64(e.Retweets) / float64(max(e.Shares, 1)),
		},
	}
}

// IsViral reports whether any counter exceeds its viral cut-off.
func (s *Scorer) IsViral(e models.Engagement) bool {
	return e.Likes > s.config.ViralLikes ||
		e.Shares > s.config.ViralShares ||
		e.Comments > s.config.ViralComments
}

func (s *Scorer) botScore(e models.Engagement) float64 {
	c := s.config
	var score float64
	if float64(e.Likes)/float64(max(e.Shares, 1)) > c.BotLikeShareRatio {
		score += c.BotLikeSharePenalty
	}
	if float64(e.Comments)/float64(max(e.Likes, 1)) < c.BotCommentLikeRatio && e.Likes > c.BotMinLikes {
		score += c.BotCommentLikePenalty
	}
	return score
}
