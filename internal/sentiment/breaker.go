// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package sentiment

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/metrics"
)

// BreakerConfig configures the circuit breaker around an Analyzer.
type BreakerConfig struct {
	Name string `koanf:"name"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests" validate:"gte=1"`

	// Interval clears failure counts while closed; 0 never clears.
	Interval time.Duration `koanf:"interval" validate:"gte=0"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold" validate:"gte=1"`

	// CallTimeout bounds each Analyze call; 0 disables the deadline.
	CallTimeout time.Duration `koanf:"call_timeout" validate:"gte=0"`
}

// DefaultBreakerConfig returns breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "sentiment",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		CallTimeout:      2 * time.Second,
	}
}

// Breaker is an Analyzer guarded by a circuit breaker.
type Breaker struct {
	next        Analyzer
	cb          *gobreaker.CircuitBreaker[float64]
	callTimeout time.Duration
}

// NewBreaker wraps next.
func NewBreaker(next Analyzer, cfg BreakerConfig) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SentimentBreakerState.WithLabelValues(name).Set(stateValue(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("sentiment circuit breaker state changed")
		},
	}
	metrics.SentimentBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &Breaker{
		next:        next,
		cb:          gobreaker.NewCircuitBreaker[float64](settings),
		callTimeout: cfg.CallTimeout,
	}
}

// Analyze implements Analyzer. While the breaker is open it fails fast with
// gobreaker.ErrOpenState.
func (b *Breaker) Analyze(ctx context.Context, text string) (float64, error) {
	return b.cb.Execute(func() (float64, error) {
		callCtx := ctx
		if b.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.callTimeout)
			defer cancel()
		}
		return b.next.Analyze(callCtx, text)
	})
}

// State returns the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
