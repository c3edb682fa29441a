// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package rules stores the weighted keyword, hashtag and regex rules that drive
content scoring, and tracks how often each rule fires.

# Identity

A rule is identified by its kind and case-folded pattern. Hashtag patterns
are normalised to a leading "#". Adding a rule whose identity already exists
fails with ErrDuplicateRule unless replace is requested; a replace keeps the
rule's ID, insertion order and counters and overwrites category, weight and
description.

# Ordering

Active returns rules ordered by weight descending, then detection count
descending, then insertion order ascending.

# Backends

MemoryStore keeps everything in process and is the default for tests and
the CLI. BadgerStore persists rules in BadgerDB; detection and feedback
counters are updated in read-modify-write transactions that retry on
badger.ErrConflict, so concurrent increments are never lost.

# Snapshots

Scoring never reads the Store directly. A Cache hands out immutable
Snapshots that hold the active rules together with a compiled Aho-Corasick
automaton for keywords and hashtags and the compiled regexes. A Snapshot is
rebuilt only when the Store's Version changes.
*/
package rules
