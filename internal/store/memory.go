// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

type trendKey struct {
	key      string
	platform string
	hour     int64
}

type trendBucket struct {
	counter models.HourlyCounter
	users   map[string]struct{}
}

// MemoryStore keeps everything in process memory. It backs tests and the
// command line tool.
type MemoryStore struct {
	mu     sync.Mutex
	items  map[string]models.ScoredItem
	trends map[trendKey]*trendBucket
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make(map[string]models.ScoredItem),
		trends: make(map[trendKey]*trendBucket),
	}
}

func (s *MemoryStore) UpsertItem(_ context.Context, item models.ScoredItem) error {
	if err := validateItem(&item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.items[item.Key()] = item
	return nil
}

func (s *MemoryStore) Items(_ context.Context, from, to time.Time) ([]models.ScoredItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	var out []models.ScoredItem
	for _, it := range s.items {
		if !it.Timestamp.Before(from) && it.Timestamp.Before(to) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Key() < out[j].Key()
	})
	return out, nil
}

func (s *MemoryStore) IncrementTrend(_ context.Context, d TrendDelta) error {
	hour := hourBucket(d.Hour)
	k := trendKey{d.Key, d.Platform, hour.Unix()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	b, ok := s.trends[k]
	if !ok {
		b = &trendBucket{
			counter: models.HourlyCounter{Key: d.Key, Platform: d.Platform, Hour: hour},
			users:   make(map[string]struct{}),
		}
		s.trends[k] = b
	}
	b.counter.MentionCount += d.Mentions
	b.counter.EngagementSum += d.Engagement
	if d.Author != "" {
		b.users[d.Author] = struct{}{}
		b.counter.UniqueUsers = int64(len(b.users))
	}
	return nil
}

func (s *MemoryStore) TrendRange(_ context.Context, from, to time.Time) ([]models.HourlyCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	var out []models.HourlyCounter
	for _, b := range s.trends {
		if !b.counter.Hour.Before(from) && b.counter.Hour.Before(to) {
			out = append(out, b.counter)
		}
	}
	sortCounters(out)
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func sortCounters(cs []models.HourlyCounter) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Key != cs[j].Key {
			return cs[i].Key < cs[j].Key
		}
		if cs[i].Platform != cs[j].Platform {
			return cs[i].Platform < cs[j].Platform
		}
		return cs[i].Hour.Before(cs[j].Hour)
	})
}
