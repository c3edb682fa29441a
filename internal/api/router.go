// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the Chi route tree around a Handler.
type Router struct {
	handler *Handler
	config  MiddlewareConfig
}

// NewRouter creates a router.
func NewRouter(handler *Handler, cfg MiddlewareConfig) *Router {
	return &Router{handler: handler, config: cfg}
}

// Setup returns the configured http.Handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(PrometheusMetrics)

	r.Get("/healthz", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitByIP(router.config))
		r.Use(APISecurityHeaders())

		r.With(Compression()).Get("/report", router.handler.GetReport)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", router.handler.ListRules)
			r.Post("/", router.handler.CreateRule)
			r.Get("/analytics", router.handler.RuleAnalytics)
			r.Patch("/{id}", router.handler.UpdateRule)
			r.Post("/{id}/feedback", router.handler.RuleFeedback)
		})

		r.Post("/items", router.handler.IngestItems)
	})

	return r
}
