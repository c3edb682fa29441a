// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/models"
)

// Key layout:
//
//	rule:<id big-endian uint64>  JSON models.Rule
//	ident:<kind>\x00<pattern>   id big-endian uint64
//	meta:next_id                last assigned id
const (
	ruleKeyPrefix  = "rule:"
	identKeyPrefix = "ident:"
	nextIDKey      = "meta:next_id"
)

// maxConflictRetries bounds optimistic transaction retries.
const maxConflictRetries = 10000

// BadgerStore is a Store backed by BadgerDB.
type BadgerStore struct {
	db      *badger.DB
	owned   bool
	version atomic.Uint64
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens a BadgerDB at path and wraps it. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{l: logging.WithComponent("badger")})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	s := NewBadgerStore(db)
	s.owned = true
	return s, nil
}

// NewBadgerStore wraps an open database. The caller keeps ownership of db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	s := &BadgerStore{db: db}
	s.version.Store(1)
	return s
}

func ruleKey(id int64) []byte {
	k := make([]byte, len(ruleKeyPrefix)+8)
	copy(k, ruleKeyPrefix)
	binary.BigEndian.PutUint64(k[len(ruleKeyPrefix):], uint64(id))
	return k
}

func identKey(identity string) []byte {
	return []byte(identKeyPrefix + identity)
}

func encodeID(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func decodeID(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("corrupt id value of %d bytes", len(b))
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// update runs fn in a read-write transaction, retrying on conflict.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxConflictRetries {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func readRule(txn *badger.Txn, id int64) (*models.Rule, error) {
	item, err := txn.Get(ruleKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rule %d: %w", id, err)
	}
	var r models.Rule
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &r)
	}); err != nil {
		return nil, fmt.Errorf("decode rule %d: %w", id, err)
	}
	sanitize(&r)
	return &r, nil
}

func writeRule(txn *badger.Txn, r *models.Rule) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode rule %d: %w", r.ID, err)
	}
	return txn.Set(ruleKey(r.ID), data)
}

// sanitize replaces negative stored counters with zero.
func sanitize(r *models.Rule) {
	if r.DetectionCount < 0 || r.TruePositives < 0 || r.FalsePositives < 0 {
		logging.Warn().
			Int64("rule_id", r.ID).
			Int64("detection_count", r.DetectionCount).
			Msg("negative rule counters in store, resetting to zero")
		r.DetectionCount = max(r.DetectionCount, 0)
		r.TruePositives = max(r.TruePositives, 0)
		r.FalsePositives = max(r.FalsePositives, 0)
	}
}

// Add implements Store.
func (s *BadgerStore) Add(ctx context.Context, spec RuleSpec, replace bool) (int64, error) {
	spec, err := normalizeSpec(spec)
	if err != nil {
		return 0, err
	}
	identity := models.RuleIdentity(spec.Kind, spec.Pattern)

	var id int64
	err = s.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(identKey(identity))
		switch {
		case err == nil:
			if !replace {
				return duplicateError(spec)
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if id, err = decodeID(raw); err != nil {
				return err
			}
			r, err := readRule(txn, id)
			if err != nil {
				return err
			}
			r.Category = spec.Category
			r.Description = spec.Description
			r.Weight = spec.Weight
			r.Active = true
			return writeRule(txn, r)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("lookup rule identity: %w", err)
		}

		next, err := nextID(txn)
		if err != nil {
			return err
		}
		id = next
		r := &models.Rule{
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
		if err := writeRule(txn, r); err != nil {
			return err
		}
		if err := txn.Set(identKey(identity), encodeID(id)); err != nil {
			return err
		}
		return txn.Set([]byte(nextIDKey), encodeID(id))
	})
	if err != nil {
		return 0, err
	}
	s.version.Add(1)
	return id, nil
}

func nextID(txn *badger.Txn) (int64, error) {
	item, err := txn.Get([]byte(nextIDKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read next id: %w", err)
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	last, err := decodeID(raw)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, id int64) (models.Rule, error) {
	var out models.Rule
	err := s.db.View(func(txn *badger.Txn) error {
		r, err := readRule(txn, id)
		if err != nil {
			return err
		}
		out = *r
		return nil
	})
	return out, err
}

// scan decodes every stored rule. Undecodable entries are logged and skipped.
func (s *BadgerStore) scan() ([]models.Rule, error) {
	var out []models.Rule
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ruleKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var r models.Rule
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				logging.Warn().Err(err).
					Str("key", fmt.Sprintf("%x", item.Key())).
					Msg("skipping undecodable rule")
				continue
			}
			sanitize(&r)
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan rules: %w", err)
	}
	return out, nil
}

// Active implements Store.
func (s *BadgerStore) Active(_ context.Context, q Query) ([]models.Rule, error) {
	all, err := s.scan()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for i := range all {
		if q.matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	sortRules(out)
	return out, nil
}

// All implements Store.
func (s *BadgerStore) All(_ context.Context) ([]models.Rule, error) {
	all, err := s.scan()
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seq < all[j].Seq })
	return all, nil
}

func (s *BadgerStore) mutate(ctx context.Context, id int64, fn func(*models.Rule)) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		r, err := readRule(txn, id)
		if err != nil {
			return err
		}
		fn(r)
		return writeRule(txn, r)
	})
}

// RecordDetection implements Store.
func (s *BadgerStore) RecordDetection(ctx context.Context, id int64, at time.Time) error {
	return s.mutate(ctx, id, func(r *models.Rule) {
		r.DetectionCount++
		t := at.UTC()
		r.LastDetected = &t
	})
}

// RecordFeedback implements Store.
func (s *BadgerStore) RecordFeedback(ctx context.Context, id int64, truePositive bool) error {
	return s.mutate(ctx, id, func(r *models.Rule) {
		if truePositive {
			r.TruePositives++
		} else {
			r.FalsePositives++
		}
	})
}

// SetActive implements Store.
func (s *BadgerStore) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.mutate(ctx, id, func(r *models.Rule) { r.Active = active }); err != nil {
		return err
	}
	s.version.Add(1)
	return nil
}

// SetWeight implements Store.
func (s *BadgerStore) SetWeight(ctx context.Context, id int64, weight float64) error {
	if err := validWeight(weight); err != nil {
		return err
	}
	if err := s.mutate(ctx, id, func(r *models.Rule) { r.Weight = weight }); err != nil {
		return err
	}
	s.version.Add(1)
	return nil
}

// Version implements Store.
func (s *BadgerStore) Version() uint64 {
	return s.version.Load()
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
