// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package scoring

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{M}\p{N}_]+`)
	mentionRe = regexp.MustCompile(`@[\p{L}\p{M}\p{N}_]+`)
	urlRe     = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// ExtractHashtags returns the distinct hashtags in text, in order of first
// appearance, with their original casing.
func ExtractHashtags(text string) []string {
	return distinct(hashtagRe.FindAllString(text, -1))
}

// ExtractMentions returns the distinct @mentions in text.
func ExtractMentions(text string) []string {
	return distinct(mentionRe.FindAllString(text, -1))
}

// ExtractURLs returns the distinct http(s) URLs in text with trailing
// punctuation removed.
func ExtractURLs(text string) []string {
	found := urlRe.FindAllString(text, -1)
	for i, u := range found {
		found[i] = strings.TrimRight(u, ".,;:!?)]}")
	}
	return distinct(found)
}

func distinct(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Languages reported by DetectLanguage.
const (
	LanguageHindi   = "hindi"
	LanguageUrdu    = "urdu"
	LanguageChinese = "chinese"
	LanguageEnglish = "english"
)

// DetectLanguage guesses the language of text from its script. Any
// Devanagari wins, then Arabic, then Han; everything else is English.
func DetectLanguage(text string) string {
	var arabic, han bool
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Devanagari):
			return LanguageHindi
		case unicode.In(r, unicode.Arabic):
			arabic = true
		case unicode.In(r, unicode.Han):
			han = true
		}
	}
	switch {
	case arabic:
		return LanguageUrdu
	case han:
		return LanguageChinese
	default:
		return LanguageEnglish
	}
}
