// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package store persists scored content items and the hourly trend counters
// that feed anomaly detection.
//
// Items are upserted by their natural key (platform, id). Trend counters are
// keyed by (key, platform, hour) and only ever grow through IncrementTrend,
// which is safe for concurrent callers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

var (
	ErrClosed      = errors.New("store closed")
	ErrInvalidItem = errors.New("invalid item")
)

// TrendDelta is one increment applied to an hourly counter. Hour is
// truncated to the hour in UTC before it is stored.
type TrendDelta struct {
	Key        string
	Platform   string
	Hour       time.Time
	Mentions   int64
	Engagement int64
	// Author is added to the bucket's distinct user set when non-empty.
	Author string
}

type Store interface {
	UpsertItem(ctx context.Context, item models.ScoredItem) error
	// Items returns items whose timestamp is in [from, to), oldest first.
	Items(ctx context.Context, from, to time.Time) ([]models.ScoredItem, error)
	IncrementTrend(ctx context.Context, d TrendDelta) error
	// TrendRange returns counters whose hour is in [from, to).
	TrendRange(ctx context.Context, from, to time.Time) ([]models.HourlyCounter, error)
	Close() error
}

func validateItem(item *models.ScoredItem) error {
	if item.ID == "" || item.Platform == "" {
		return ErrInvalidItem
	}
	return nil
}

func hourBucket(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}
