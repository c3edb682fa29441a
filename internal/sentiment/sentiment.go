// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package sentiment provides text polarity scoring in [-1, 1].
//
// The scorer treats sentiment as an unreliable collaborator: any Analyzer
// may fail or stall, so callers go through Score, which substitutes a
// neutral 0.0 on error and never returns one. A Breaker in front of a slow
// or remote Analyzer stops repeated failures from costing a timeout each.
package sentiment

import (
	"context"
	"errors"
	"math"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
)

// Analyzer scores the polarity of text. Implementations return a value in
// [-1, 1]; negative is hostile.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (float64, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, text string) (float64, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

// Neutral always returns 0. It is used when sentiment is disabled.
var Neutral Analyzer = AnalyzerFunc(func(context.Context, string) (float64, error) {
	return 0, nil
})

// Score runs a and returns its result clamped to [-1, 1]. Errors, NaN and a
// nil analyzer all yield 0.
func Score(ctx context.Context, a Analyzer, text string) float64 {
	if a == nil {
		return 0
	}
	v, err := a.Analyze(ctx, text)
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			reason = "breaker_open"
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, context.Canceled):
			reason = "cancelled"
		}
		metrics.SentimentFailures.WithLabelValues(reason).Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("reason", reason).Msg("sentiment unavailable, using neutral score")
		return 0
	}
	if math.IsNaN(v) {
		metrics.SentimentFailures.WithLabelValues("invalid").Inc()
		return 0
	}
	return clamp(v)
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
