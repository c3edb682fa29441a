// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package matcher

import (
	"reflect"
	"testing"
)

func TestFindAll(t *testing.T) {
	m := New([]string{"boycott india", "#boycottindia", "india", "he", "she", "hers", ""})

	tests := []struct {
		name string
		text string
		want []int
	}{
		{"mixed case phrase", "Boycott INDIA now", []int{0, 2}},
		{"hashtag", "trend #BoycottIndia", []int{1, 2}},
		{"overlapping suffixes", "ushers", []int{4, 3, 5}},
		{"repeated pattern reported once", "india india india", []int{2}},
		{"no match", "nothing here", nil},
		{"empty text", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindAll(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAll(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindAllNonLatin(t *testing.T) {
	m := New([]string{"कश्मीर", "कश्मीर आज़ादी"})

	got := m.FindAll("यह कश्मीर आज़ादी की बात है")
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("FindAll = %v, want [0 1]", got)
	}
}

func TestContains(t *testing.T) {
	m := New([]string{"death to", "hate"})
	if !m.Contains("I HATE this") {
		t.Error("expected match")
	}
	if m.Contains("lovely day") {
		t.Error("unexpected match")
	}
	if New(nil).Contains("anything") {
		t.Error("empty matcher should never match")
	}
}

func TestPattern(t *testing.T) {
	m := New([]string{"Free Kashmir"})
	if m.Len() != 1 || m.Pattern(0) != "free kashmir" {
		t.Errorf("Pattern(0) = %q", m.Pattern(0))
	}
}
