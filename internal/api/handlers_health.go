// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status       string `json:"status"`
	Storage      string `json:"storage,omitempty"`
	RulesVersion uint64 `json:"rules_version"`
}

// Health reports liveness. A failing storage ping turns it into a 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok", RulesVersion: h.rules.Version()}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, codeStorage, "storage unavailable", err)
			return
		}
		status.Storage = "ok"
	}

	respondData(w, http.StatusOK, status)
}
