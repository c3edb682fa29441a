// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

/*
Package supervisor runs the long-lived Campaignwatch services under suture v4.

The tree isolates failures by layer:

	RootSupervisor ("campaignwatch")
	├── IngestSupervisor ("ingest-layer")
	│   └── ingest-consumer      (pipeline.Ingestor)
	├── AnalysisSupervisor ("analysis-layer")
	│   └── report-job           (services.ReportJobService)
	└── APISupervisor ("api-layer")
	    └── http-server          (services.HTTPServerService)

A service that returns an error is restarted with backoff. Once a layer
exceeds its failure threshold it backs off without affecting its siblings.

Supervisor events are logged through sutureslog, which takes an
*slog.Logger; logging.NewSlogLogger bridges it onto zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddIngestService(ingestor)
	tree.AddAnalysisService(services.NewReportJobService(aggregator, window, 15*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
