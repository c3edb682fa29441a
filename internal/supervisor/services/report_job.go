// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/report"
)

// ReportGenerator matches report.Aggregator's Generate method.
type ReportGenerator interface {
	Generate(ctx context.Context, w report.Window) (*report.Report, error)
}

// ReportJobService regenerates the campaign report on a fixed interval.
//
// The first report is produced as soon as the service starts. A failed run
// is logged and retried at the next tick; only context cancellation ends
// Serve, so one bad snapshot never trips the supervisor's backoff.
//
// Example usage:
//
//	agg := report.NewAggregator(cfg.Report, detector, ranker, anomalies, ruleStore)
//	svc := services.NewReportJobService(agg, proc.Window(), cfg.Report.Interval)
//	tree.AddAnalysisService(svc)
type ReportJobService struct {
	generator ReportGenerator
	window    report.Window
	interval  time.Duration
	name      string
}

// NewReportJobService creates a report job. Non-positive intervals fall
// back to 15 minutes.
func NewReportJobService(generator ReportGenerator, window report.Window, interval time.Duration) *ReportJobService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReportJobService{
		generator: generator,
		window:    window,
		interval:  interval,
		name:      "report-job",
	}
}

// Serve implements suture.Service.
func (s *ReportJobService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		rep, err := s.generator.Generate(ctx, s.window)
		switch {
		case err == nil:
			logger.Info().
				Str("report_id", rep.ID).
				Int("detections", rep.Summary.TotalDetections).
				Int("campaigns", rep.Summary.CoordinatedCampaigns).
				Msg("Report generated")
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn().Err(err).Msg("Report generation timed out")
		default:
			logger.Error().Err(err).Msg("Report generation failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *ReportJobService) String() string {
	return s.name
}
