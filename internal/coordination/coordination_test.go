// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package coordination

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func item(id, author string, at time.Time, body string, tags ...string) models.ScoredItem {
	return models.ScoredItem{
		ContentItem: models.ContentItem{
			ID:        id,
			Platform:  "twitter",
			Author:    author,
			Timestamp: at,
			Body:      body,
			Hashtags:  tags,
		},
		ScoreResult: models.ScoreResult{ThreatLevel: models.ThreatLow},
	}
}

func ofType(cs []models.Cluster, kind models.ClusterType) []models.Cluster {
	var out []models.Cluster
	for _, c := range cs {
		if c.Type == kind {
			out = append(out, c)
		}
	}
	return out
}

// distinctBodies keeps the similarity detector out of hashtag and timing tests.
func distinctBodies(n int) []string {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", words[i%len(words)], i)
	}
	return out
}

func TestHashtagCluster(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    int
	}{
		{"five items three authors", []string{"a", "b", "c", "a", "b"}, 1},
		{"four items", []string{"a", "b", "c", "a"}, 0},
		{"two authors", []string{"a", "b", "a", "b", "a"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodies := distinctBodies(len(tt.authors))
			var items []models.ScoredItem
			for i, a := range tt.authors {
				// Spread across the day so no hour bucket fills up.
				at := day.Add(time.Duration(i*3) * time.Hour)
				tag := "#BoycottIndia"
				if i%2 == 1 {
					tag = "boycottindia"
				}
				items = append(items, item(fmt.Sprint(i), a, at, bodies[i], tag))
			}

			got, err := NewDetector(DefaultConfig()).Detect(context.Background(), items)
			if err != nil {
				t.Fatal(err)
			}
			hc := ofType(got, models.ClusterHashtag)
			if len(hc) != tt.want {
				t.Fatalf("hashtag clusters = %d, want %d", len(hc), tt.want)
			}
			if tt.want == 1 && hc[0].DistinguishingFeature != "#boycottindia" {
				t.Errorf("feature = %q", hc[0].DistinguishingFeature)
			}
		})
	}
}

func TestHashtagClusterSplitsByDay(t *testing.T) {
	authors := []string{"a", "b", "c", "d", "e", "f"}
	bodies := distinctBodies(len(authors))
	var items []models.ScoredItem
	for i, a := range authors {
		// three on each side of midnight
		at := day.Add(21*time.Hour + time.Duration(i)*time.Hour)
		items = append(items, item(fmt.Sprint(i), a, at, bodies[i], "#x"))
	}
	got, _ := NewDetector(DefaultConfig()).Detect(context.Background(), items)
	if n := len(ofType(got, models.ClusterHashtag)); n != 0 {
		t.Errorf("hashtag clusters = %d, want 0 across two days", n)
	}
}

func TestTimingBucketBoundary(t *testing.T) {
	bodies := distinctBodies(10)
	var items []models.ScoredItem
	// Five posts at 10:5x and five at 11:0x, three authors each side.
	for i := 0; i < 5; i++ {
		items = append(items, item(fmt.Sprintf("a%d", i), fmt.Sprint("u", i%3), day.Add(10*time.Hour+55*time.Minute+time.Duration(i)*time.Minute), bodies[i]))
	}
	for i := 0; i < 5; i++ {
		items = append(items, item(fmt.Sprintf("b%d", i), fmt.Sprint("u", i%3), day.Add(11*time.Hour+time.Duration(i)*time.Minute), bodies[5+i]))
	}

	got, err := NewDetector(DefaultConfig()).Detect(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	tc := ofType(got, models.ClusterTiming)
	if len(tc) != 2 {
		t.Fatalf("timing clusters = %d, want 2", len(tc))
	}
	if tc[0].Size() != 5 || tc[1].Size() != 5 {
		t.Errorf("sizes = %d, %d", tc[0].Size(), tc[1].Size())
	}
	if tc[0].DistinguishingFeature != "2026-03-14T10:00:00Z" {
		t.Errorf("first bucket = %s", tc[0].DistinguishingFeature)
	}
}

func TestTimingNotMergedAcrossBoundary(t *testing.T) {
	bodies := distinctBodies(6)
	times := []time.Duration{
		10*time.Hour + 57*time.Minute,
		10*time.Hour + 58*time.Minute,
		10*time.Hour + 59*time.Minute,
		11*time.Hour + 1*time.Minute,
		11*time.Hour + 2*time.Minute,
		11*time.Hour + 3*time.Minute,
	}
	var items []models.ScoredItem
	for i, d := range times {
		items = append(items, item(fmt.Sprint(i), fmt.Sprint("u", i), day.Add(d), bodies[i]))
	}
	got, _ := NewDetector(DefaultConfig()).Detect(context.Background(), items)
	if n := len(ofType(got, models.ClusterTiming)); n != 0 {
		t.Errorf("timing clusters = %d, want 0", n)
	}
}

func TestHashtagWithoutTiming(t *testing.T) {
	// Six items, four authors, one day, split 3/3 across two hours.
	bodies := distinctBodies(6)
	authors := []string{"a", "b", "c", "d", "a", "b"}
	var items []models.ScoredItem
	for i, a := range authors {
		at := day.Add(9 * time.Hour)
		if i >= 3 {
			at = day.Add(15 * time.Hour)
		}
		items = append(items, item(fmt.Sprint(i), a, at.Add(time.Duration(i)*time.Minute), bodies[i], "#x"))
	}

	got, err := NewDetector(DefaultConfig()).Detect(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ofType(got, models.ClusterHashtag)); n != 1 {
		t.Errorf("hashtag clusters = %d, want 1", n)
	}
	if n := len(ofType(got, models.ClusterTiming)); n != 0 {
		t.Errorf("timing clusters = %d, want 0", n)
	}
}

func TestSimilarityCluster(t *testing.T) {
	base := "india must be boycotted by everyone everywhere right now today"
	items := []models.ScoredItem{
		item("1", "a", day, base),
		item("2", "b", day.Add(time.Minute), "INDIA must be boycotted by everyone everywhere right now today"),
		item("3", "a", day.Add(2*time.Minute), base),
		item("4", "c", day.Add(3*time.Minute), "completely unrelated text about cricket"),
	}
	got, err := NewDetector(DefaultConfig()).Detect(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	sc := ofType(got, models.ClusterSimilarity)
	if len(sc) != 1 {
		t.Fatalf("similarity clusters = %d, want 1", len(sc))
	}
	c := sc[0]
	if c.Size() != 3 || c.UniqueAuthorCount != 2 {
		t.Errorf("cluster size=%d authors=%d", c.Size(), c.UniqueAuthorCount)
	}
	if c.TimeSpan != 2*time.Minute {
		t.Errorf("TimeSpan = %v", c.TimeSpan)
	}
}

func TestSimilaritySingleAuthorNotReported(t *testing.T) {
	text := "same words repeated by one account"
	items := []models.ScoredItem{
		item("1", "a", day, text),
		item("2", "a", day, text),
		item("3", "a", day, text),
	}
	got, _ := NewDetector(DefaultConfig()).Detect(context.Background(), items)
	if n := len(ofType(got, models.ClusterSimilarity)); n != 0 {
		t.Errorf("similarity clusters = %d, want 0", n)
	}
}

func TestSimilarityGreedyIsOrderDependent(t *testing.T) {
	// s0 ~ s1 and s1 ~ s2 but s0 !~ s2. Seeded from s0, s2 stays out.
	s0 := "a b c d e f g h i j"
	s1 := "a b c d e f g h i j k"
	s2 := "b c d e f g h i j k l"
	items := []models.ScoredItem{
		item("0", "x", day, s0),
		item("1", "y", day, s1),
		item("2", "z", day, s2),
	}
	sets := []map[string]struct{}{wordSet(s0), wordSet(s1), wordSet(s2)}
	if Jaccard(sets[0], sets[1]) <= 0.8 || Jaccard(sets[1], sets[2]) <= 0.8 || Jaccard(sets[0], sets[2]) > 0.8 {
		t.Fatal("fixture similarities are not as intended")
	}

	cfg := DefaultConfig()
	cfg.SimilarityMinItems = 2
	got, _ := NewDetector(cfg).Detect(context.Background(), items)
	sc := ofType(got, models.ClusterSimilarity)
	if len(sc) != 1 || len(sc[0].MemberIDs) != 2 || sc[0].MemberIDs[1] != "1" {
		t.Errorf("clusters = %+v, want one cluster {0,1}", sc)
	}
}

func TestJaccard(t *testing.T) {
	empty := map[string]struct{}{}
	a := wordSet("x y z")
	b := wordSet("y z w")

	if Jaccard(empty, empty) != 0 {
		t.Error("Jaccard(∅,∅) should be 0")
	}
	if Jaccard(a, a) != 1 {
		t.Error("Jaccard(A,A) should be 1")
	}
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Error("Jaccard should be symmetric")
	}
	if got := Jaccard(a, b); got != 0.5 {
		t.Errorf("Jaccard = %v, want 0.5", got)
	}
	if Jaccard(a, empty) != 0 {
		t.Error("Jaccard(A,∅) should be 0")
	}
}

func TestClusterThreat(t *testing.T) {
	tests := []struct {
		levels []models.ThreatLevel
		want   models.ThreatLevel
	}{
		{[]models.ThreatLevel{models.ThreatCritical, models.ThreatCritical, models.ThreatHigh, models.ThreatCritical}, models.ThreatCritical},
		{[]models.ThreatLevel{models.ThreatCritical, models.ThreatHigh}, models.ThreatCritical},
		{[]models.ThreatLevel{models.ThreatHigh, models.ThreatMedium}, models.ThreatHigh},
		{[]models.ThreatLevel{models.ThreatMedium, models.ThreatLow}, models.ThreatMedium},
		{[]models.ThreatLevel{models.ThreatNone, models.ThreatMedium, models.ThreatLow}, models.ThreatLow},
		{nil, models.ThreatLow},
	}
	for _, tt := range tests {
		if got := ClusterThreat(tt.levels); got != tt.want {
			t.Errorf("ClusterThreat(%v) = %s, want %s", tt.levels, got, tt.want)
		}
	}
}

func TestDetectShortCircuitsAndLimits(t *testing.T) {
	d := NewDetector(DefaultConfig())
	items := []models.ScoredItem{item("1", "a", day, "x"), item("2", "b", day, "x")}
	got, err := d.Detect(context.Background(), items)
	if err != nil || got != nil {
		t.Errorf("two items = %v, %v; want nil, nil", got, err)
	}

	cfg := DefaultConfig()
	cfg.MaxWindowSize = 3
	big := make([]models.ScoredItem, 4)
	if _, err := NewDetector(cfg).Detect(context.Background(), big); !errors.Is(err, ErrWindowTooLarge) {
		t.Errorf("err = %v, want ErrWindowTooLarge", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	three := []models.ScoredItem{item("1", "a", day, "x"), item("2", "b", day, "y"), item("3", "c", day, "z")}
	if _, err := d.Detect(ctx, three); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
