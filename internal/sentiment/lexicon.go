// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package sentiment

import (
	"context"
	"strings"
	"unicode"
)

// DefaultNegativeWords are hostile cue words.
var DefaultNegativeWords = []string{
	"hate", "evil", "bad", "terrible", "awful", "disgusting", "corrupt",
	"criminal", "violent", "dangerous", "threat", "destroy", "attack",
	"kill", "murder", "genocide",
}

// DefaultPositiveWords are conciliatory cue words.
var DefaultPositiveWords = []string{
	"good", "great", "excellent", "wonderful", "peaceful", "democratic",
	"free", "justice", "rights", "help",
}

// Lexicon scores text by counting cue words:
//
//	score = clamp((positive - negative) / max(words, 1) * scale, -1, 1)
//
// Words are split on whitespace, case-folded and trimmed of surrounding
// punctuation before lookup.
type Lexicon struct {
	negative map[string]struct{}
	positive map[string]struct{}
	scale    float64
}

// NewLexicon builds a Lexicon. A non-positive scale defaults to 100.
func NewLexicon(negative, positive []string, scale float64) *Lexicon {
	if scale <= 0 {
		scale = 100
	}
	return &Lexicon{
		negative: wordSet(negative),
		positive: wordSet(positive),
		scale:    scale,
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Analyze implements Analyzer. It never fails.
func (l *Lexicon) Analyze(_ context.Context, text string) (float64, error) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0, nil
	}

	var pos, neg int
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if _, ok := l.negative[w]; ok {
			neg++
		}
		if _, ok := l.positive[w]; ok {
			pos++
		}
	}
	return clamp(float64(pos-neg) / float64(len(words)) * l.scale), nil
}
