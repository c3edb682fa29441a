// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package api

import (
	"context"

	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/report"
	"github.com/tomtom215/campaignwatch/internal/rules"
)

// Publisher is satisfied by *pipeline.Ingestor.
type Publisher interface {
	Publish(ctx context.Context, items ...models.ContentItem) error
}

// ReportSource is satisfied by *report.Aggregator.
type ReportSource interface {
	Latest() *report.Report
	Generate(ctx context.Context, w report.Window) (*report.Report, error)
}

// Pinger reports storage health. *store.DuckDBStore satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the collaborators behind the HTTP routes.
type Handler struct {
	rules        rules.Store
	ingest       Publisher
	reports      ReportSource
	window       report.Window
	storage      Pinger
	maxBodyBytes int64
}

// HandlerDeps groups the Handler collaborators. Storage may be nil.
type HandlerDeps struct {
	Rules        rules.Store
	Ingest       Publisher
	Reports      ReportSource
	Window       report.Window
	Storage      Pinger
	MaxBodyBytes int64
}

// NewHandler creates a Handler. A non-positive MaxBodyBytes falls back to
// 1 MiB.
func NewHandler(deps HandlerDeps) *Handler {
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMiddlewareConfig().MaxBodyBytes
	}
	return &Handler{
		rules:        deps.Rules,
		ingest:       deps.Ingest,
		reports:      deps.Reports,
		window:       deps.Window,
		storage:      deps.Storage,
		maxBodyBytes: maxBody,
	}
}
