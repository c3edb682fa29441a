// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu         sync.RWMutex
	rules      map[int64]*models.Rule
	byIdentity map[string]int64
	nextID     int64
	version    atomic.Uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		rules:      make(map[int64]*models.Rule),
		byIdentity: make(map[string]int64),
	}
	s.version.Store(1)
	return s
}

// Add implements Store.
func (s *MemoryStore) Add(_ context.Context, spec RuleSpec, replace bool) (int64, error) {
	spec, err := normalizeSpec(spec)
	if err != nil {
		return 0, err
	}
	identity := models.RuleIdentity(spec.Kind, spec.Pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byIdentity[identity]; ok {
		if !replace {
			return 0, duplicateError(spec)
		}
		r := s.rules[id]
		r.Category = spec.Category
		r.Description = spec.Description
		r.Weight = spec.Weight
		r.Active = true
		s.version.Add(1)
		return id, nil
	}

	s.nextID++
	id := s.nextID
	s.rules[id] = &models.Rule{
		ID:          id,
		Pattern:     spec.Pattern,
		Kind:        spec.Kind,
		Category:    spec.Category,
		Description: spec.Description,
		Weight:      spec.Weight,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
		Seq:         id,
	}
	s.byIdentity[identity] = id
	s.version.Add(1)
	return id, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id int64) (models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	if !ok {
		return models.Rule{}, ErrRuleNotFound
	}
	return cloneRule(r), nil
}

// Active implements Store.
func (s *MemoryStore) Active(_ context.Context, q Query) ([]models.Rule, error) {
	s.mu.RLock()
	out := make([]models.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if q.matches(r) {
			out = append(out, cloneRule(r))
		}
	}
	s.mu.RUnlock()

	sortRules(out)
	return out, nil
}

// All implements Store.
func (s *MemoryStore) All(_ context.Context) ([]models.Rule, error) {
	s.mu.RLock()
	out := make([]models.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, cloneRule(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// RecordDetection implements Store.
func (s *MemoryStore) RecordDetection(_ context.Context, id int64, at time.Time) error {
	return s.mutate(id, false, func(r *models.Rule) {
		r.DetectionCount++
		t := at.UTC()
		r.LastDetected = &t
	})
}

// RecordFeedback implements Store.
func (s *MemoryStore) RecordFeedback(_ context.Context, id int64, truePositive bool) error {
	return s.mutate(id, false, func(r *models.Rule) {
		if truePositive {
			r.TruePositives++
		} else {
			r.FalsePositives++
		}
	})
}

// SetActive implements Store.
func (s *MemoryStore) SetActive(_ context.Context, id int64, active bool) error {
	return s.mutate(id, true, func(r *models.Rule) { r.Active = active })
}

// SetWeight implements Store.
func (s *MemoryStore) SetWeight(_ context.Context, id int64, weight float64) error {
	if err := validWeight(weight); err != nil {
		return err
	}
	return s.mutate(id, true, func(r *models.Rule) { r.Weight = weight })
}

func (s *MemoryStore) mutate(id int64, bump bool, fn func(*models.Rule)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[id]
	if !ok {
		return ErrRuleNotFound
	}
	fn(r)
	if bump {
		s.version.Add(1)
	}
	return nil
}

// Version implements Store.
func (s *MemoryStore) Version() uint64 {
	return s.version.Load()
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
