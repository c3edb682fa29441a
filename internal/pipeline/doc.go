// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package pipeline moves collected content from the ingest transport through
the scorer and into the report window.

Components:

  - Ingestor: watermill in-process pub/sub. Collectors and the HTTP API
    publish JSON-encoded content items on a topic; a single consumer
    goroutine (run under the supervisor) decodes and processes them.
  - Processor: scores an item, persists it, bumps the hourly trend counters
    for each matched rule and checks the alert conditions.
  - Window: the single-writer buffer of relevant scored items and alerts.
    Report passes read it through Snapshot, which copies under a read lock
    so a report never sees a partially appended batch.

Persistence and trend failures are logged and counted; they never stop the
item from reaching the window.
*/
package pipeline
