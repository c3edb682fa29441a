// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package pipeline

import (
	"sync"
	"time"

	"github.com/tomtom215/campaignwatch/internal/metrics"
	"github.com/tomtom215/campaignwatch/internal/models"
)

// Snapshot is an immutable copy of the window contents.
type Snapshot struct {
	Items   []models.ScoredItem
	Alerts  []models.Alert
	TakenAt time.Time
}

type entry struct {
	item    models.ScoredItem
	addedAt time.Time
}

// Window buffers relevant scored items for report passes. Add must only be
// called from one goroutine; Snapshot may be called from any.
type Window struct {
	mu        sync.RWMutex
	items     []entry
	alerts    []models.Alert
	maxItems  int
	maxAlerts int
	retention time.Duration
	now       func() time.Time
}

func NewWindow(cfg Config) *Window {
	return &Window{
		maxItems:  cfg.WindowMaxItems,
		maxAlerts: cfg.MaxAlerts,
		retention: cfg.WindowRetention,
		now:       time.Now,
	}
}

// Add appends item and, if non-nil, its alert. Entries older than the
// retention period and anything beyond the capacity are evicted oldest
// first.
func (w *Window) Add(item models.ScoredItem, alert *models.Alert) {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = append(w.items, entry{item: item, addedAt: now})
	if alert != nil {
		w.alerts = append(w.alerts, *alert)
	}
	w.evict(now)
	metrics.WindowItems.Set(float64(len(w.items)))
}

func (w *Window) evict(now time.Time) {
	cutoff := now.Add(-w.retention)
	drop := 0
	for drop < len(w.items) && w.items[drop].addedAt.Before(cutoff) {
		drop++
	}
	if over := len(w.items) - drop - w.maxItems; w.maxItems > 0 && over > 0 {
		drop += over
	}
	if drop > 0 {
		w.items = append(w.items[:0:0], w.items[drop:]...)
	}

	keep := 0
	for keep < len(w.alerts) && w.alerts[keep].CreatedAt.Before(cutoff) {
		keep++
	}
	if over := len(w.alerts) - keep - w.maxAlerts; w.maxAlerts > 0 && over > 0 {
		keep += over
	}
	if keep > 0 {
		w.alerts = append(w.alerts[:0:0], w.alerts[keep:]...)
	}
}

// Snapshot copies the entries still inside the retention period.
func (w *Window) Snapshot() Snapshot {
	now := w.now()
	cutoff := now.Add(-w.retention)

	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := Snapshot{
		Items:   make([]models.ScoredItem, 0, len(w.items)),
		Alerts:  make([]models.Alert, 0, len(w.alerts)),
		TakenAt: now,
	}
	for _, e := range w.items {
		if !e.addedAt.Before(cutoff) {
			snap.Items = append(snap.Items, e.item)
		}
	}
	for _, a := range w.alerts {
		if !a.CreatedAt.Before(cutoff) {
			snap.Alerts = append(snap.Alerts, a)
		}
	}
	return snap
}

// Len returns the number of buffered items, including any not yet evicted.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.items)
}
