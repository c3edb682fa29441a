// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestLexiconAnalyze(t *testing.T) {
	l := NewLexicon(DefaultNegativeWords, DefaultPositiveWords, 100)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"no cue words", "the river runs south", 0},
		{"hostile clamps to -1", "they hate us and want to destroy us", -1},
		{"friendly clamps to 1", "great help", 1},
		{"balanced", "good and bad", 0},
		{"punctuation trimmed", "Evil!", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Analyze(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got != tt.want {
				t.Errorf("Analyze(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLexiconScaleBelowClamp(t *testing.T) {
	l := NewLexicon([]string{"bad"}, nil, 1)
	// one negative word in four
	got, _ := l.Analyze(context.Background(), "this is quite bad")
	if math.Abs(got-(-0.25)) > 1e-9 {
		t.Errorf("Analyze = %v, want -0.25", got)
	}
}

func TestScoreFailSoft(t *testing.T) {
	failing := AnalyzerFunc(func(context.Context, string) (float64, error) {
		return 0.9, errors.New("backend down")
	})
	nan := AnalyzerFunc(func(context.Context, string) (float64, error) {
		return math.NaN(), nil
	})
	loud := AnalyzerFunc(func(context.Context, string) (float64, error) {
		return -7, nil
	})

	tests := []struct {
		name string
		a    Analyzer
		want float64
	}{
		{"nil analyzer", nil, 0},
		{"error", failing, 0},
		{"nan", nan, 0},
		{"out of range", loud, -1},
		{"neutral", Neutral, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(context.Background(), tt.a, "text"); got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	calls := 0
	failing := AnalyzerFunc(func(context.Context, string) (float64, error) {
		calls++
		return 0, errors.New("backend down")
	})

	cfg := DefaultBreakerConfig()
	cfg.Name = "test-open"
	cfg.FailureThreshold = 3
	cfg.Timeout = time.Hour
	b := NewBreaker(failing, cfg)

	for i := 0; i < 3; i++ {
		if _, err := b.Analyze(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
	}
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	_, err := b.Analyze(context.Background(), "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (open breaker must not call through)", calls)
	}
	if got := Score(context.Background(), b, "x"); got != 0 {
		t.Errorf("Score through open breaker = %v, want 0", got)
	}
}

func TestBreakerCallTimeout(t *testing.T) {
	slow := AnalyzerFunc(func(ctx context.Context, _ string) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	cfg := DefaultBreakerConfig()
	cfg.Name = "test-timeout"
	cfg.CallTimeout = 10 * time.Millisecond
	b := NewBreaker(slow, cfg)

	_, err := b.Analyze(context.Background(), "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestNewDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	got, err := New(cfg).Analyze(context.Background(), "hate hate hate")
	if err != nil || got != 0 {
		t.Errorf("disabled analyzer = %v, %v", got, err)
	}
}

func TestNewEnabled(t *testing.T) {
	got, err := New(DefaultConfig()).Analyze(context.Background(), "terrible awful")
	if err != nil || got != -1 {
		t.Errorf("Analyze = %v, %v; want -1", got, err)
	}
}
