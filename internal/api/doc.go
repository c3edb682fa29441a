// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package api serves the Campaignwatch HTTP surface using the Chi router.

Routes:

	GET   /healthz                       liveness plus storage ping
	GET   /metrics                       Prometheus exposition
	GET   /api/v1/report                 latest report (?refresh=true regenerates)
	GET   /api/v1/rules                  all rules, or active ones with ?active=true
	POST  /api/v1/rules                  add a rule (?replace=true overwrites)
	GET   /api/v1/rules/analytics        rule effectiveness summary
	PATCH /api/v1/rules/{id}             toggle active or change weight
	POST  /api/v1/rules/{id}/feedback    record a true or false positive
	POST  /api/v1/items                  publish content items for scoring

Every JSON body is wrapped in models.APIResponse. Errors carry a stable
code (VALIDATION_ERROR, NOT_FOUND, CONFLICT, ...) next to the message.

The /api/v1 group is rate limited per client IP with go-chi/httprate.
Request latency and status counts are recorded by PrometheusMetrics,
labelled with the Chi route pattern rather than the raw path.
*/
package api
