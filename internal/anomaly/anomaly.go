// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package anomaly flags hourly trend counters that deviate from their own
// recent baseline.
//
// For each (key, platform) series the detector reads every hourly bucket in
// the lookback window, computes the mean and sample standard deviation, and
// scores the buckets that fall in the recent window. Series with fewer than
// MinHistory buckets are never scored.
package anomaly

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
)

// TrendReader returns every hourly counter whose hour falls in [from, to).
type TrendReader interface {
	TrendRange(ctx context.Context, from, to time.Time) ([]models.HourlyCounter, error)
}

type Config struct {
	Lookback     time.Duration `koanf:"lookback" validate:"gt=0"`
	RecentWindow time.Duration `koanf:"recent_window" validate:"gt=0,ltefield=Lookback"`
	MinHistory   int           `koanf:"min_history" validate:"gte=2"`

	// ZThreshold must be strictly exceeded for a bucket to be flagged.
	ZThreshold float64 `koanf:"z_threshold" validate:"gt=0"`
	HighZ      float64 `koanf:"high_z" validate:"gtfield=MediumZ"`
	MediumZ    float64 `koanf:"medium_z" validate:"gtefield=ZThreshold"`
}

func DefaultConfig() Config {
	return Config{
		Lookback:     48 * time.Hour,
		RecentWindow: 6 * time.Hour,
		MinHistory:   12,
		ZThreshold:   2.0,
		HighZ:        4.0,
		MediumZ:      3.0,
	}
}

type Detector struct {
	config Config
	reader TrendReader
	now    func() time.Time
}

func NewDetector(cfg Config, reader TrendReader) *Detector {
	return &Detector{config: cfg, reader: reader, now: time.Now}
}

type seriesKey struct {
	key      string
	platform string
}

// Detect reads the lookback window ending at the current hour and returns
// the flagged buckets, strongest first.
func (d *Detector) Detect(ctx context.Context) ([]models.AnomalyRecord, error) {
	return d.DetectAt(ctx, d.now())
}

// DetectAt is Detect with an explicit reference time.
func (d *Detector) DetectAt(ctx context.Context, now time.Time) ([]models.AnomalyRecord, error) {
	end := now.UTC().Truncate(time.Hour).Add(time.Hour)
	from := end.Add(-d.config.Lookback)

	counters, err := d.reader.TrendRange(ctx, from, end)
	if err != nil {
		return nil, fmt.Errorf("read trend counters: %w", err)
	}

	out := d.Score(counters, end.Add(-d.config.RecentWindow))
	for _, a := range out {
		metrics.AnomaliesFlagged.WithLabelValues(string(a.ThreatLevel)).Inc()
	}

	logging.Ctx(ctx).Debug().
		Int("counters", len(counters)).
		Int("anomalies", len(out)).
		Time("from", from).
		Msg("anomaly detection complete")
	return out, nil
}

// Score computes baselines over counters and flags every bucket at or after
// recentFrom. It does no I/O.
func (d *Detector) Score(counters []models.HourlyCounter, recentFrom time.Time) []models.AnomalyRecord {
	series := make(map[seriesKey][]models.HourlyCounter)
	for _, c := range counters {
		k := seriesKey{c.Key, c.Platform}
		series[k] = append(series[k], c)
	}

	var out []models.AnomalyRecord
	for _, buckets := range series {
		if len(buckets) < d.config.MinHistory {
			continue
		}
		mean, std := meanStd(buckets)
		divisor := std
		if divisor == 0 {
			divisor = 1
		}

		for _, b := range buckets {
			if b.Hour.Before(recentFrom) {
				continue
			}
			z := (float64(b.MentionCount) - mean) / divisor
			if math.Abs(z) <= d.config.ZThreshold {
				continue
			}
			out = append(out, models.AnomalyRecord{
				Key:           b.Key,
				Platform:      b.Platform,
				HourBucket:    b.Hour,
				ObservedCount: b.MentionCount,
				BaselineMean:  mean,
				BaselineStd:   std,
				ZScore:        z,
				ThreatLevel:   d.level(math.Abs(z)),
				EngagementSum: b.EngagementSum,
				UniqueUsers:   b.UniqueUsers,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].ZScore), math.Abs(out[j].ZScore)
		if ai != aj {
			return ai > aj
		}
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].HourBucket.Before(out[j].HourBucket)
	})
	return out
}

func (d *Detector) level(absZ float64) models.ThreatLevel {
	switch {
	case absZ > d.config.HighZ:
		return models.ThreatHigh
	case absZ > d.config.MediumZ:
		return models.ThreatMedium
	default:
		return models.ThreatLow
	}
}

// meanStd returns the mean and the sample (n-1) standard deviation.
func meanStd(buckets []models.HourlyCounter) (float64, float64) {
	n := float64(len(buckets))
	var sum float64
	for _, b := range buckets {
		sum += float64(b.MentionCount)
	}
	mean := sum / n
	if len(buckets) < 2 {
		return mean, 0
	}
	var sq float64
	for _, b := range buckets {
		d := float64(b.MentionCount) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / (n - 1))
}
