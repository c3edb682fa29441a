// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package matcher implements a case-insensitive multi-pattern substring
// matcher using the Aho-Corasick algorithm.
//
// A Matcher is built once from a fixed pattern list and is immutable, so one
// instance can be shared by any number of goroutines. Search time is
// O(n + z) in the text length and number of matches, independent of how many
// patterns are loaded, which keeps scoring cost flat as the rule pack grows.
//
//	m := matcher.New([]string{"boycott india", "#boycottindia"})
//	hits := m.FindAll("Boycott India now #BoycottIndia") // [0 1]
package matcher

import "strings"

type node struct {
	children map[rune]*node
	fail     *node
	// output holds indices of patterns ending here, including those
	// inherited through the failure chain.
	output []int
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Matcher is an immutable Aho-Corasick automaton over case-folded patterns.
type Matcher struct {
	root     *node
	patterns []string
}

// New builds a Matcher. Patterns are case-folded; empty patterns never match.
// The index of each pattern in the input slice identifies it in results.
func New(patterns []string) *Matcher {
	m := &Matcher{
		root:     newNode(),
		patterns: make([]string, len(patterns)),
	}
	for i, p := range patterns {
		folded := strings.ToLower(p)
		m.patterns[i] = folded
		if folded == "" {
			continue
		}
		m.insert(i, folded)
	}
	m.link()
	return m
}

func (m *Matcher) insert(index int, pattern string) {
	n := m.root
	for _, ch := range pattern {
		child, ok := n.children[ch]
		if !ok {
			child = newNode()
			n.children[ch] = child
		}
		n = child
	}
	n.output = append(n.output, index)
}

// link builds failure links breadth-first and merges outputs along them.
func (m *Matcher) link() {
	queue := make([]*node, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.fail = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for ch, child := range cur.children {
			queue = append(queue, child)

			f := cur.fail
			for f != nil && f.children[ch] == nil {
				f = f.fail
			}
			if f == nil {
				child.fail = m.root
				continue
			}
			child.fail = f.children[ch]
			child.output = append(child.output, child.fail.output...)
		}
	}
}

// Len returns the number of patterns, including empty ones.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Pattern returns the case-folded pattern at index i.
func (m *Matcher) Pattern(i int) string {
	return m.patterns[i]
}

// FindAll returns the distinct indices of patterns contained in text, in
// order of first occurrence. A pattern occurring several times is reported
// once.
func (m *Matcher) FindAll(text string) []int {
	if len(m.root.children) == 0 || text == "" {
		return nil
	}

	var (
		found []int
		seen  map[int]struct{}
	)
	n := m.root
	for _, ch := range strings.ToLower(text) {
		for n != m.root && n.children[ch] == nil {
			n = n.fail
		}
		if next, ok := n.children[ch]; ok {
			n = next
		}
		for _, idx := range n.output {
			if seen == nil {
				seen = make(map[int]struct{})
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			found = append(found, idx)
		}
	}
	return found
}

// Contains reports whether any pattern occurs in text.
func (m *Matcher) Contains(text string) bool {
	if len(m.root.children) == 0 {
		return false
	}
	n := m.root
	for _, ch := range strings.ToLower(text) {
		for n != m.root && n.children[ch] == nil {
			n = n.fail
		}
		if next, ok := n.children[ch]; ok {
			n = next
		}
		if len(n.output) > 0 {
			return true
		}
	}
	return false
}
