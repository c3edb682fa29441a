// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package scoring

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/rules"
	"github.com/tomtom215/campaignwatch/internal/sentiment"
)

func TestStandardProfileBoundaries(t *testing.T) {
	p := StandardProfile()
	tests := []struct {
		severity float64
		want     models.ThreatLevel
	}{
		{0, models.ThreatLow},
		{7.99, models.ThreatLow},
		{8.0, models.ThreatMedium},
		{14.99, models.ThreatMedium},
		{15.0, models.ThreatHigh},
		{24.99, models.ThreatHigh},
		{25.0, models.ThreatCritical},
		{100, models.ThreatCritical},
	}
	for _, tt := range tests {
		if got := p.Classify(tt.severity); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.severity, got, tt.want)
		}
	}
}

func TestLightProfileBoundaries(t *testing.T) {
	p := LightProfile()
	tests := []struct {
		severity float64
		want     models.ThreatLevel
	}{
		{0, models.ThreatNone},
		{0.99, models.ThreatNone},
		{1, models.ThreatLow},
		{2.99, models.ThreatLow},
		{3, models.ThreatMedium},
		{4.99, models.ThreatMedium},
		{5, models.ThreatHigh},
		{50, models.ThreatHigh},
	}
	for _, tt := range tests {
		if got := p.Classify(tt.severity); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.severity, got, tt.want)
		}
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       ThresholdProfile
		wantErr bool
	}{
		{"standard", StandardProfile(), false},
		{"light", LightProfile(), false},
		{"not descending", ThresholdProfile{Name: "x", Critical: 10, High: 10, Floor: models.ThreatLow}, true},
		{"no tiers", ThresholdProfile{Name: "x", Floor: models.ThreatNone}, true},
		{"floor too high", ThresholdProfile{Name: "x", High: 5, Low: 1, Floor: models.ThreatLow}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelectedProfile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profile = ProfileLight
	p, err := cfg.SelectedProfile()
	if err != nil || p.Name != ProfileLight {
		t.Fatalf("SelectedProfile = %+v, %v", p, err)
	}
	cfg.Profile = "strict"
	if _, err := cfg.SelectedProfile(); err == nil {
		t.Error("unknown profile accepted")
	}
}

// fixture builds a scorer over a memory rule store.
func fixture(t *testing.T, specs []rules.RuleSpec, analyzer sentiment.Analyzer) (*Scorer, *rules.MemoryStore) {
	t.Helper()
	store := rules.NewMemoryStore()
	for _, spec := range specs {
		if _, err := store.Add(context.Background(), spec, false); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	s, err := NewScorer(DefaultConfig(), rules.NewCache(store), store, analyzer)
	if err != nil {
		t.Fatal(err)
	}
	return s, store
}

var workedRules = []rules.RuleSpec{
	{Pattern: "boycott india", Kind: models.RuleKindKeyword, Category: "boycott_campaign", Weight: 2.8},
	{Pattern: "hindu terrorism", Kind: models.RuleKindRegex, Category: "religious_hate", Weight: 9},
	{Pattern: "#boycottindia", Kind: models.RuleKindHashtag, Category: "boycott_campaign", Weight: 2.5},
}

func TestScoreWorkedExample(t *testing.T) {
	s, store := fixture(t, workedRules, sentiment.Neutral)
	item := models.ContentItem{
		ID:       "p1",
		Platform: "twitter",
		Body:     "boycott India and Hindu terrorism now #BoycottIndia",
	}

	got, err := s.Score(context.Background(), item)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.SeverityScore-14.3) > 1e-9 {
		t.Errorf("SeverityScore = %v, want 14.3", got.SeverityScore)
	}
	if got.ThreatLevel != models.ThreatMedium {
		t.Errorf("ThreatLevel = %s, want MEDIUM", got.ThreatLevel)
	}
	if !got.Relevant {
		t.Error("item should be relevant")
	}
	if len(got.Matches) != 3 {
		t.Errorf("Matches = %d, want 3", len(got.Matches))
	}
	if !reflect.DeepEqual(got.Categories, []string{"boycott_campaign", "religious_hate"}) {
		t.Errorf("Categories = %v", got.Categories)
	}
	if !reflect.DeepEqual(got.Hashtags, []string{"#BoycottIndia"}) {
		t.Errorf("Hashtags = %v", got.Hashtags)
	}
	if item.Hashtags != nil {
		t.Error("input item was modified")
	}

	all, _ := store.All(context.Background())
	for _, r := range all {
		if r.DetectionCount != 1 {
			t.Errorf("rule %q detection count = %d, want 1", r.Pattern, r.DetectionCount)
		}
	}
}

func TestScoreDeterministicAndMonotonic(t *testing.T) {
	s, _ := fixture(t, workedRules, sentiment.Neutral)
	ctx := context.Background()

	texts := []string{
		"nothing relevant",
		"boycott india",
		"boycott india and hindu terrorism",
		"boycott india and hindu terrorism #boycottindia",
	}
	prev := -1.0
	for _, text := range texts {
		a, _ := s.Score(ctx, models.ContentItem{ID: "x", Platform: "web", Body: text})
		b, _ := s.Score(ctx, models.ContentItem{ID: "x", Platform: "web", Body: text})
		if a.SeverityScore != b.SeverityScore || a.ThreatLevel != b.ThreatLevel {
			t.Errorf("%q not deterministic", text)
		}
		if a.SeverityScore < prev {
			t.Errorf("%q severity %v dropped below %v", text, a.SeverityScore, prev)
		}
		prev = a.SeverityScore
	}
}

func TestScoreRelevanceGate(t *testing.T) {
	hostile := sentiment.AnalyzerFunc(func(context.Context, string) (float64, error) { return -0.8, nil })
	heavy := []rules.RuleSpec{{Pattern: "zzz", Kind: models.RuleKindKeyword, Weight: 4}}

	tests := []struct {
		name     string
		analyzer sentiment.Analyzer
		text     string
		want     bool
	}{
		{"match alone is relevant", sentiment.Neutral, "zzz", true},
		{"no match neutral", sentiment.Neutral, "hello", false},
		{"no match hostile but zero severity", hostile, "hello", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := fixture(t, heavy, tt.analyzer)
			got, err := s.Score(context.Background(), models.ContentItem{ID: "1", Platform: "web", Body: tt.text})
			if err != nil {
				t.Fatal(err)
			}
			if got.Relevant != tt.want {
				t.Errorf("Relevant = %v, want %v", got.Relevant, tt.want)
			}
		})
	}
}

func TestScoreSentimentFailureIsNeutral(t *testing.T) {
	broken := sentiment.AnalyzerFunc(func(context.Context, string) (float64, error) {
		return -1, errors.New("timeout")
	})
	s, _ := fixture(t, workedRules, broken)
	got, err := s.Score(context.Background(), models.ContentItem{ID: "1", Platform: "web", Body: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if got.SentimentScore != 0 {
		t.Errorf("SentimentScore = %v, want 0", got.SentimentScore)
	}
}

type failingRecorder struct {
	mu    sync.Mutex
	calls int
}

func (f *failingRecorder) RecordDetection(context.Context, int64, time.Time) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return errors.New("store unavailable")
}

func TestScoreRecorderFailureDoesNotFailItem(t *testing.T) {
	store := rules.NewMemoryStore()
	for _, spec := range workedRules {
		if _, err := store.Add(context.Background(), spec, false); err != nil {
			t.Fatal(err)
		}
	}
	rec := &failingRecorder{}
	s, err := NewScorer(DefaultConfig(), rules.NewCache(store), rec, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Score(context.Background(), models.ContentItem{ID: "1", Platform: "web", Body: "boycott india #boycottindia"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(got.Matches) != 2 || rec.calls != 2 {
		t.Errorf("matches=%d calls=%d, want 2 and 2", len(got.Matches), rec.calls)
	}
}

func TestExtractors(t *testing.T) {
	text := "Look @alice @Alice at #FreeKashmir and #freekashmir https://example.com/a?b=1, then #कश्मीर"
	if got := ExtractHashtags(text); !reflect.DeepEqual(got, []string{"#FreeKashmir", "#कश्मीर"}) {
		t.Errorf("hashtags = %v", got)
	}
	if got := ExtractMentions(text); !reflect.DeepEqual(got, []string{"@alice"}) {
		t.Errorf("mentions = %v", got)
	}
	if got := ExtractURLs(text); !reflect.DeepEqual(got, []string{"https://example.com/a?b=1"}) {
		t.Errorf("urls = %v", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"plain english", LanguageEnglish},
		{"mixed कश्मीर text", LanguageHindi},
		{"کشمیر", LanguageUrdu},
		{"克什米尔", LanguageChinese},
		{"", LanguageEnglish},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
