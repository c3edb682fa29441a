// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package logging provides the zerolog-based structured logger used across
// Campaignwatch.
//
// A single global logger is configured once at startup with Init and read
// through the level helpers (Info, Warn, Error, ...). Context-aware logging
// attaches the correlation ID of the current pipeline run or report run:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Str("platform", p).Msg("item scored")
//
// Two adapters let third-party libraries write through the same logger:
//   - SlogHandler, for suture's event hook via sutureslog
//   - WatermillAdapter, for the ingest pub/sub transport
//
// Environment (read by the config package, not here):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
package logging
