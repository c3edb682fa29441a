// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package anomaly

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

type fakeReader struct {
	counters []models.HourlyCounter
	err      error
	from, to time.Time
}

func (f *fakeReader) TrendRange(_ context.Context, from, to time.Time) ([]models.HourlyCounter, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	var out []models.HourlyCounter
	for _, c := range f.counters {
		if !c.Hour.Before(from) && c.Hour.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

var now = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

// series builds hourly buckets ending at the hour containing now, oldest
// first.
func series(key string, counts ...int64) []models.HourlyCounter {
	last := now.Truncate(time.Hour)
	out := make([]models.HourlyCounter, len(counts))
	for i, c := range counts {
		out[i] = models.HourlyCounter{
			Key:          key,
			Platform:     "twitter",
			Hour:         last.Add(-time.Duration(len(counts)-1-i) * time.Hour),
			MentionCount: c,
		}
	}
	return out
}

func flat(n int, v int64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestShortHistoryNeverFlagged(t *testing.T) {
	counts := append(flat(10, 1), 10000)
	r := &fakeReader{counters: series("#spike", counts...)}

	got, err := NewDetector(DefaultConfig(), r).DetectAt(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("flagged %d buckets with 11 history points, want 0", len(got))
	}
}

func TestSpikeFlagged(t *testing.T) {
	// 40 quiet hours then a spike in the current hour. With a single outlier
	// z is (n-1)/sqrt(n), so it needs a long series to reach HIGH.
	counts := append(flat(40, 2), 40)
	r := &fakeReader{counters: series("#spike", counts...)}

	got, err := NewDetector(DefaultConfig(), r).DetectAt(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("anomalies = %d, want 1", len(got))
	}
	a := got[0]
	if a.ObservedCount != 40 || a.ThreatLevel != models.ThreatHigh {
		t.Errorf("got %+v", a)
	}
	if a.ZScore <= 2 {
		t.Errorf("z = %v", a.ZScore)
	}
	wantMean := float64(40*2+40) / 41
	if math.Abs(a.BaselineMean-wantMean) > 1e-9 {
		t.Errorf("mean = %v, want %v", a.BaselineMean, wantMean)
	}
}

func TestZeroStdTreatedAsOne(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	counters := series("flat", flat(13, 5)...)
	if got := d.Score(counters, now.Add(-6*time.Hour)); len(got) != 0 {
		t.Errorf("flat series flagged %d buckets", len(got))
	}
}

func TestOnlyRecentBucketsScored(t *testing.T) {
	// The spike sits 20 hours back, outside the six-hour recent window.
	counts := append([]int64{90}, flat(20, 1)...)
	r := &fakeReader{counters: series("#old", counts...)}

	got, err := NewDetector(DefaultConfig(), r).DetectAt(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("old spike flagged: %+v", got)
	}
	if want := now.Truncate(time.Hour).Add(-47 * time.Hour); !r.from.Equal(want) {
		t.Errorf("lookback from = %v, want %v", r.from, want)
	}
}

func TestThreatTiers(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	tests := []struct {
		z    float64
		want models.ThreatLevel
	}{
		{2.01, models.ThreatLow},
		{3.0, models.ThreatLow},
		{3.01, models.ThreatMedium},
		{4.0, models.ThreatMedium},
		{4.01, models.ThreatHigh},
	}
	for _, tt := range tests {
		if got := d.level(tt.z); got != tt.want {
			t.Errorf("level(%v) = %s, want %s", tt.z, got, tt.want)
		}
	}
}

func TestSortedByAbsZThenKey(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	var counters []models.HourlyCounter
	counters = append(counters, series("b", append(flat(12, 1), 30)...)...)
	counters = append(counters, series("a", append(flat(12, 1), 30)...)...)
	counters = append(counters, series("c", append(flat(20, 1), 60)...)...)

	got := d.Score(counters, now.Add(-6*time.Hour))
	if len(got) != 3 {
		t.Fatalf("anomalies = %d, want 3", len(got))
	}
	order := []string{got[0].Key, got[1].Key, got[2].Key}
	want := []string{"c", "a", "b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestNegativeDeviationFlagged(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	counts := append(flat(14, 50), 0)
	got := d.Score(series("drop", counts...), now.Add(-6*time.Hour))
	if len(got) != 1 || got[0].ZScore >= 0 {
		t.Errorf("got %+v, want one negative anomaly", got)
	}
}

func TestReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewDetector(DefaultConfig(), &fakeReader{err: boom}).DetectAt(context.Background(), now)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}
