// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/models"
)

// IngestResult is the POST /items response body.
type IngestResult struct {
	Accepted int `json:"accepted"`
}

// IngestItems publishes one item or a JSON array of items to the ingest
// topic. Scoring happens asynchronously; 202 means queued, not scored.
// The whole batch is rejected if any item fails validation.
func (h *Handler) IngestItems(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if status, err := decodeBody(w, r, h.maxBodyBytes, &raw); err != nil {
		code := codeValidation
		if status == http.StatusRequestEntityTooLarge {
			code = codeTooLarge
		}
		respondError(w, status, code, "invalid request body", err)
		return
	}

	items, err := decodeItems(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "body must be an item or an array of items", err)
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "no items supplied", nil)
		return
	}

	for i := range items {
		if apiErr := validateRequest(&items[i]); apiErr != nil {
			apiErr.Message = "item " + strconv.Itoa(i) + ": " + apiErr.Message
			respondAPIError(w, http.StatusBadRequest, apiErr)
			return
		}
	}

	if err := h.ingest.Publish(r.Context(), items...); err != nil {
		respondError(w, http.StatusServiceUnavailable, codeIngest, "failed to queue items", err)
		return
	}

	logging.Ctx(r.Context()).Debug().Int("items", len(items)).Msg("Items queued")
	respondData(w, http.StatusAccepted, IngestResult{Accepted: len(items)})
}

func decodeItems(raw json.RawMessage) ([]models.ContentItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.ContentItem
		err := json.Unmarshal(trimmed, &items)
		return items, err
	}
	var item models.ContentItem
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, err
	}
	return []models.ContentItem{item}, nil
}
