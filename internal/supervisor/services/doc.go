// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package services adapts Campaignwatch components to suture.Service.

Each wrapper turns a component's own lifecycle into a context-aware
Serve(ctx) error that returns ctx.Err() on shutdown and a real error when
the supervisor should restart it.

  - HTTPServerService wraps *http.Server, translating ListenAndServe into
    Serve and draining connections with Shutdown on cancellation.
  - ReportJobService regenerates the campaign report on a ticker.

pipeline.Ingestor already implements Serve and String, so it is added to
the tree directly.
*/
package services
