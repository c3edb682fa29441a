// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/campaignwatch/internal/logging"
)

// GetReport returns the latest report. The first request after start, or
// any request with ?refresh=true, generates a fresh one from the window.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	if rep := h.reports.Latest(); rep != nil && !refresh {
		respondData(w, http.StatusOK, rep)
		return
	}

	rep, err := h.reports.Generate(r.Context(), h.window)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeReport, "report generation failed", err)
		return
	}
	logging.Ctx(r.Context()).Debug().Str("report_id", rep.ID).Msg("Report generated on request")
	respondData(w, http.StatusOK, rep)
}
