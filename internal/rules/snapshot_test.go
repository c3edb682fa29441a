// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

func TestSnapshotMatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	mustAdd(t, s, RuleSpec{Pattern: "boycott India", Kind: models.RuleKindKeyword, Weight: 2.8})
	mustAdd(t, s, RuleSpec{Pattern: "hindu terrorism", Kind: models.RuleKindRegex, Weight: 9})
	mustAdd(t, s, RuleSpec{Pattern: "#BoycottIndia", Kind: models.RuleKindHashtag, Weight: 2.5})
	mustAdd(t, s, RuleSpec{Pattern: "कश्मीर", Kind: models.RuleKindKeyword, Weight: 2.5})
	mustAdd(t, s, RuleSpec{Pattern: `death\s+to\s+india`, Kind: models.RuleKindRegex, Weight: 3})

	snap, err := NewCache(s).Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		text     string
		patterns []string
	}{
		{
			"worked example",
			"boycott India and Hindu terrorism now #BoycottIndia",
			[]string{"hindu terrorism", "boycott india", "#boycottindia"},
		},
		{"regex counted once", "Death to India! DEATH   TO india", []string{`death\s+to\s+india`}},
		{"devanagari", "कश्मीर के लिए", []string{"कश्मीर"}},
		{"no match", "cricket scores today", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap.Match(tt.text)
			if len(got) != len(tt.patterns) {
				t.Fatalf("Match = %+v, want %v", got, tt.patterns)
			}
			for i, p := range tt.patterns {
				if got[i].Pattern != p {
					t.Errorf("match[%d] = %q, want %q", i, got[i].Pattern, p)
				}
			}
		})
	}
}

func TestSnapshotSkipsInactiveAndBadRegex(t *testing.T) {
	snap := NewSnapshot([]models.Rule{
		{ID: 1, Pattern: "hate", Kind: models.RuleKindKeyword, Weight: 1, Active: false},
		{ID: 2, Pattern: "(", Kind: models.RuleKindRegex, Weight: 1, Active: true},
		{ID: 3, Pattern: "evil", Kind: models.RuleKindKeyword, Weight: 1, Active: true},
	})
	if snap.Len() != 1 {
		t.Fatalf("Len = %d, want 1", snap.Len())
	}
	if got := snap.Match("hate and evil ("); len(got) != 1 || got[0].RuleID != 3 {
		t.Errorf("Match = %+v", got)
	}
}

func TestCacheRebuildsOnVersionChange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id := mustAdd(t, s, RuleSpec{Pattern: "anti india", Kind: models.RuleKindKeyword, Weight: 3})
	c := NewCache(s)

	first, _ := c.Snapshot(ctx)
	if err := s.RecordDetection(ctx, id, time.Now()); err != nil {
		t.Fatal(err)
	}
	second, _ := c.Snapshot(ctx)
	if first != second {
		t.Error("counter update should not rebuild the snapshot")
	}

	if err := s.SetActive(ctx, id, false); err != nil {
		t.Fatal(err)
	}
	third, _ := c.Snapshot(ctx)
	if third == first || third.Len() != 0 {
		t.Errorf("deactivation not reflected: len=%d", third.Len())
	}
}

func TestBuildAnalytics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := mustAdd(t, s, RuleSpec{Pattern: "a", Kind: models.RuleKindKeyword, Category: "hate", Weight: 2})
	b := mustAdd(t, s, RuleSpec{Pattern: "b", Kind: models.RuleKindKeyword, Category: "hate", Weight: 4})
	c := mustAdd(t, s, RuleSpec{Pattern: "c", Kind: models.RuleKindKeyword, Category: "boycott", Weight: 1})
	off := mustAdd(t, s, RuleSpec{Pattern: "d", Kind: models.RuleKindKeyword, Category: "boycott", Weight: 1})

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_ = s.RecordDetection(ctx, a, base)
	_ = s.RecordDetection(ctx, b, base.Add(time.Hour))
	_ = s.RecordDetection(ctx, b, base.Add(2*time.Hour))
	_ = s.RecordFeedback(ctx, a, true)
	_ = s.RecordDetection(ctx, off, base.Add(3*time.Hour))
	_ = s.SetActive(ctx, off, false)

	an, err := BuildAnalytics(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if an.TotalRules != 4 || an.ActiveRules != 3 || an.TotalDetections != 3 {
		t.Errorf("totals = %d/%d/%d", an.TotalRules, an.ActiveRules, an.TotalDetections)
	}
	if an.TopRules[0].ID != b || an.TopRules[1].ID != a || an.TopRules[2].ID != c {
		t.Errorf("top rules order wrong: %+v", an.TopRules)
	}
	if an.TopRules[1].Precision != 1 {
		t.Errorf("precision = %v", an.TopRules[1].Precision)
	}
	if len(an.Categories) != 2 || an.Categories[0].Category != "hate" || an.Categories[0].AvgWeight != 3 {
		t.Errorf("categories = %+v", an.Categories)
	}
	if len(an.RecentDetections) != 3 || an.RecentDetections[0].ID != off {
		t.Errorf("recent = %+v", an.RecentDetections)
	}
}
