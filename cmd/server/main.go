// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/campaignwatch/internal/app"
	"github.com/tomtom215/campaignwatch/internal/config"
	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/supervisor"
	"github.com/tomtom215/campaignwatch/internal/supervisor/services"
)

func main() {
	inMemory := flag.Bool("memory", false, "keep all state in memory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggerConfig())

	logging.Info().
		Str("duckdb_path", cfg.Storage.DuckDB.Path).
		Str("rules_path", cfg.Storage.RulesPath).
		Str("profile", cfg.Scoring.Profile).
		Bool("in_memory", *inMemory).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, app.Options{InMemory: *inMemory}); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, opts app.Options) error {
	a, err := app.New(ctx, cfg, opts)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing stores")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddIngestService(a.Ingestor)
	tree.AddAnalysisService(services.NewReportJobService(a.Aggregator, a.Window, cfg.Report.Interval))

	if cfg.Server.Enabled {
		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           a.HTTPHandler(),
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
		logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")
	} else {
		logging.Info().Msg("HTTP server disabled (HTTP_ENABLED=false)")
	}

	logging.Info().Msg("Starting supervisor tree")
	serveErr := <-tree.ServeBackground(ctx)
	if serveErr != nil && ctx.Err() != nil {
		// cancelled by a signal
		serveErr = nil
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return serveErr
}
