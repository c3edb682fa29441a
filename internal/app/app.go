// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package app wires the Campaignwatch components from a loaded
// configuration. Both binaries build on it: the server adds the supervisor
// tree and HTTP surface, campaignctl scores and reports in-process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/campaignwatch/internal/anomaly"
	"github.com/tomtom215/campaignwatch/internal/api"
	"github.com/tomtom215/campaignwatch/internal/config"
	"github.com/tomtom215/campaignwatch/internal/coordination"
	"github.com/tomtom215/campaignwatch/internal/engagement"
	"github.com/tomtom215/campaignwatch/internal/influence"
	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/pipeline"
	"github.com/tomtom215/campaignwatch/internal/report"
	"github.com/tomtom215/campaignwatch/internal/rules"
	"github.com/tomtom215/campaignwatch/internal/scoring"
	"github.com/tomtom215/campaignwatch/internal/sentiment"
	"github.com/tomtom215/campaignwatch/internal/store"
)

// Options selects the storage backends.
type Options struct {
	// InMemory keeps rules, items and trend counters in process memory
	// instead of BadgerDB and DuckDB.
	InMemory bool
}

// App holds the wired components.
type App struct {
	Config     *config.Config
	Rules      rules.Store
	Store      store.Store
	Scorer     *scoring.Scorer
	Engagement *engagement.Scorer
	Window     *pipeline.Window
	Processor  *pipeline.Processor
	Ingestor   *pipeline.Ingestor
	Aggregator *report.Aggregator

	// db is set when items live in DuckDB; it backs the health check.
	db *store.DuckDBStore
}

// New opens the stores, seeds default rules when configured and wires the
// scoring pipeline and report aggregator. Close releases everything New
// opened, including on a partial failure.
func New(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if err := a.openStores(ctx, opts); err != nil {
		return nil, err
	}

	if cfg.Storage.SeedDefaultRules {
		if _, err := rules.SeedDefaults(ctx, a.Rules); err != nil {
			return nil, fmt.Errorf("seed default rules: %w", err)
		}
	}

	a.Engagement = engagement.NewScorer(cfg.Engagement)
	a.Scorer, err = scoring.NewScorer(cfg.Scoring, rules.NewCache(a.Rules), a.Rules, sentiment.New(cfg.Sentiment))
	if err != nil {
		return nil, fmt.Errorf("create scorer: %w", err)
	}

	a.Window = pipeline.NewWindow(cfg.Pipeline)
	a.Processor = pipeline.NewProcessor(cfg.Pipeline, a.Scorer, a.Store, a.Engagement, a.Window)
	a.Ingestor, err = pipeline.NewIngestor(cfg.Pipeline, a.Processor)
	if err != nil {
		return nil, fmt.Errorf("create ingestor: %w", err)
	}

	a.Aggregator = report.NewAggregator(
		cfg.Report,
		coordination.NewDetector(cfg.Coordination),
		influence.NewRanker(cfg.Influence, a.Engagement),
		anomaly.NewDetector(cfg.Anomaly, a.Store),
		a.Rules,
	)

	logging.Info().
		Str("profile", a.Scorer.Profile().Name).
		Bool("in_memory", opts.InMemory).
		Msg("Campaign detection pipeline ready")
	return a, nil
}

func (a *App) openStores(ctx context.Context, opts Options) error {
	if opts.InMemory {
		a.Rules = rules.NewMemoryStore()
		a.Store = store.NewMemoryStore()
		return nil
	}

	rs, err := rules.OpenBadger(a.Config.Storage.RulesPath)
	if err != nil {
		return err
	}
	a.Rules = rs

	db, err := store.OpenDuckDB(ctx, a.Config.Storage.DuckDB)
	if err != nil {
		return err
	}
	a.db = db
	a.Store = db
	return nil
}

// HTTPHandler builds the API router over the wired components.
func (a *App) HTTPHandler() http.Handler {
	deps := api.HandlerDeps{
		Rules:        a.Rules,
		Ingest:       a.Ingestor,
		Reports:      a.Aggregator,
		Window:       a.Window,
		MaxBodyBytes: a.Config.Server.MaxBodyBytes,
	}
	if a.db != nil {
		deps.Storage = a.db
	}
	mw := api.MiddlewareConfig{
		RateLimitRequests: a.Config.Server.RateLimitReqs,
		RateLimitWindow:   a.Config.Server.RateLimitWindow,
		RateLimitDisabled: a.Config.Server.RateLimitDisabled,
		MaxBodyBytes:      a.Config.Server.MaxBodyBytes,
	}
	return api.NewRouter(api.NewHandler(deps), mw).Setup()
}

// Close shuts the ingestor and both stores, joining their errors.
func (a *App) Close() error {
	var errs []error
	if a.Ingestor != nil {
		errs = append(errs, a.Ingestor.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.Rules != nil {
		errs = append(errs, a.Rules.Close())
	}
	return errors.Join(errs...)
}
