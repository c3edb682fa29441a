// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package sentiment

// Config selects and tunes the sentiment analyzer.
type Config struct {
	// Enabled false substitutes Neutral.
	Enabled       bool          `koanf:"enabled"`
	NegativeWords []string      `koanf:"negative_words" validate:"dive,required"`
	PositiveWords []string      `koanf:"positive_words" validate:"dive,required"`
	Scale         float64       `koanf:"scale" validate:"gt=0"`
	Breaker       BreakerConfig `koanf:"breaker"`
}

// DefaultConfig returns the lexicon analyzer defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		NegativeWords: append([]string(nil), DefaultNegativeWords...),
		PositiveWords: append([]string(nil), DefaultPositiveWords...),
		Scale:         100,
		Breaker:       DefaultBreakerConfig(),
	}
}

// New builds the configured Analyzer: a breaker-guarded Lexicon, or Neutral
// when disabled.
func New(cfg Config) Analyzer {
	if !cfg.Enabled {
		return Neutral
	}
	return NewBreaker(NewLexicon(cfg.NegativeWords, cfg.PositiveWords, cfg.Scale), cfg.Breaker)
}
