// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Command campaignctl scores content and builds campaign reports from the
// command line, without running the server.
//
//	campaignctl score "boycott India now"
//	campaignctl report --input items.jsonl
//	campaignctl rules list --active --kind hashtag
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/tomtom215/campaignwatch/internal/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("campaignctl failed")
		os.Exit(1)
	}
}
