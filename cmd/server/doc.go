// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package main is the entry point for the Campaignwatch server.

The server scores incoming social-media content against the weighted rule
set, keeps a rolling window of relevant items, and periodically builds a
campaign report: coordinated clusters, influential authors, hourly mention
anomalies, trending patterns and recommendations.

# Application Architecture

	RootSupervisor ("campaignwatch")
	├── IngestSupervisor ("ingest-layer")
	│   └── ingest-consumer   scores items published to the ingest topic
	├── AnalysisSupervisor ("analysis-layer")
	│   └── report-job        regenerates the report every report.interval
	└── APISupervisor ("api-layer")
	    └── http-server       /healthz, /metrics, /api/v1/...

Initialization order:

 1. .env file (optional, joho/godotenv)
 2. Configuration: koanf v2, defaults < config.yaml < environment
 3. Logging: zerolog, JSON or console
 4. Rule store (BadgerDB) and item/trend store (DuckDB)
 5. Default rule pack seeding
 6. Scorer, ingest pipeline and report aggregator
 7. Supervisor tree

# Configuration

Common environment variables:

	LOG_LEVEL=info                 trace, debug, info, warn, error
	LOG_FORMAT=json                json or console
	HTTP_PORT=8470
	DUCKDB_PATH=/data/campaignwatch.duckdb
	RULES_PATH=/data/rules         BadgerDB directory
	THRESHOLD_PROFILE=standard     standard or light
	REPORT_INTERVAL=15m
	CONFIG_PATH=/etc/campaignwatch/config.yaml

Flags:

	-memory   keep rules, items and trends in memory (nothing persists)

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
server.shutdown_timeout, the consumer stops, and both stores are closed.
*/
package main
