// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"regexp"
	"sync"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/matcher"
	"github.com/tomtom215/campaignwatch/internal/models"
)

type compiledRegex struct {
	rule int
	re   *regexp.Regexp
}

// Snapshot is an immutable view of the active rules, ready for matching.
// It is safe for concurrent use.
type Snapshot struct {
	rules    []models.Rule
	literals *matcher.Matcher
	// literalRule maps a matcher pattern index to its index in rules.
	literalRule []int
	regexes     []compiledRegex
	version     uint64
}

// NewSnapshot builds a Snapshot over rules, which must already be in rule
// order. Inactive rules and regexes that fail to compile are skipped.
func NewSnapshot(rules []models.Rule) *Snapshot {
	s := &Snapshot{rules: make([]models.Rule, 0, len(rules))}

	var patterns []string
	for i := range rules {
		r := cloneRule(&rules[i])
		if !r.Active {
			continue
		}
		idx := len(s.rules)

		switch r.Kind {
		case models.RuleKindKeyword, models.RuleKindHashtag:
			patterns = append(patterns, r.Pattern)
			s.literalRule = append(s.literalRule, idx)
		case models.RuleKindRegex:
			re, err := compileRegex(r.Pattern)
			if err != nil {
				logging.Warn().Err(err).Int64("rule_id", r.ID).Msg("skipping rule with invalid regex")
				continue
			}
			s.regexes = append(s.regexes, compiledRegex{rule: idx, re: re})
		default:
			logging.Warn().Int64("rule_id", r.ID).Str("kind", string(r.Kind)).Msg("skipping rule of unknown kind")
			continue
		}
		s.rules = append(s.rules, r)
	}
	s.literals = matcher.New(patterns)
	return s
}

// Len returns the number of rules in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the snapshot's rules in rule order.
func (s *Snapshot) Rules() []models.Rule {
	out := make([]models.Rule, len(s.rules))
	for i := range s.rules {
		out[i] = cloneRule(&s.rules[i])
	}
	return out
}

// Match returns every distinct rule matching text, in rule order.
// Keywords and hashtags match by case-folded substring containment; regexes
// match case-insensitively against the raw text. A rule appears at most once
// however many times it occurs.
func (s *Snapshot) Match(text string) []models.RuleMatch {
	if len(s.rules) == 0 || text == "" {
		return nil
	}

	hit := make([]bool, len(s.rules))
	n := 0
	for _, p := range s.literals.FindAll(text) {
		hit[s.literalRule[p]] = true
		n++
	}
	for _, cr := range s.regexes {
		if cr.re.MatchString(text) {
			hit[cr.rule] = true
			n++
		}
	}
	if n == 0 {
		return nil
	}

	out := make([]models.RuleMatch, 0, n)
	for i, ok := range hit {
		if !ok {
			continue
		}
		r := &s.rules[i]
		out = append(out, models.RuleMatch{
			RuleID:   r.ID,
			Pattern:  r.Pattern,
			Kind:     r.Kind,
			Category: r.Category,
			Weight:   r.Weight,
		})
	}
	return out
}

// Cache hands out Snapshots of a Store, rebuilding only when the Store's
// Version moves.
type Cache struct {
	store Store

	mu   sync.Mutex
	snap *Snapshot
}

// NewCache creates a Cache over store.
func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Snapshot returns the current Snapshot.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	v := c.store.Version()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && c.snap.version == v {
		return c.snap, nil
	}

	active, err := c.store.Active(ctx, Query{})
	if err != nil {
		return nil, err
	}
	snap := NewSnapshot(active)
	snap.version = v
	c.snap = snap

	logging.Debug().Uint64("version", v).Int("rules", snap.Len()).Msg("rule snapshot rebuilt")
	return snap, nil
}
