// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/campaignwatch/internal/config"
	"github.com/tomtom215/campaignwatch/internal/models"
)

func newInMemory(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), config.Default(), Options{InMemory: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNewSeedsDefaultRules(t *testing.T) {
	a := newInMemory(t)
	all, err := a.Rules.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("default rules were not seeded")
	}
}

func TestNewWithoutSeeding(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.SeedDefaultRules = false
	a, err := New(context.Background(), cfg, Options{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	all, _ := a.Rules.All(context.Background())
	if len(all) != 0 {
		t.Errorf("got %d rules, want none", len(all))
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	a := newInMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Ingestor.Serve(ctx) }()

	at := time.Now().UTC().Add(-time.Hour)
	items := []models.ContentItem{
		{ID: "1", Platform: "twitter", Author: "a", Body: "we must boycott India now", Timestamp: at},
		{ID: "2", Platform: "twitter", Author: "b", Body: "boycott India today", Timestamp: at},
		{ID: "3", Platform: "reddit", Author: "c", Body: "lovely weather in the hills", Timestamp: at},
	}
	if err := a.Ingestor.Publish(ctx, items...); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for a.Ingestor.Stats().Processed < int64(len(items)) {
		if time.Now().After(deadline) {
			t.Fatalf("processed %d of %d items", a.Ingestor.Stats().Processed, len(items))
		}
		time.Sleep(10 * time.Millisecond)
	}

	rep, err := a.Aggregator.Generate(ctx, a.Window)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rep.Summary.TotalDetections != 2 {
		t.Errorf("TotalDetections = %d, want 2", rep.Summary.TotalDetections)
	}
	if rep.PlatformBreakdown["twitter"] != 2 {
		t.Errorf("PlatformBreakdown = %v", rep.PlatformBreakdown)
	}

	stored, err := a.Store.Items(ctx, at.Add(-time.Minute), at.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 {
		t.Errorf("stored %d items, want 3 (irrelevant items are persisted too)", len(stored))
	}
}

func TestHTTPHandler(t *testing.T) {
	a := newInMemory(t)
	h := a.HTTPHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules?active=true", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("rules status = %d", rec.Code)
	}
}

func TestCloseIsSafeOnPartialApp(t *testing.T) {
	a := &App{}
	if err := a.Close(); err != nil {
		t.Errorf("Close on empty App = %v", err)
	}
}
