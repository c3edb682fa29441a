// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/rules"
)

// CreateRuleResult is the POST /rules response body.
type CreateRuleResult struct {
	ID int64 `json:"id"`
}

// UpdateRuleRequest is the PATCH /rules/{id} body. At least one field must
// be set.
type UpdateRuleRequest struct {
	Active *bool    `json:"active"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0,lte=100"`
}

// FeedbackRequest is the POST /rules/{id}/feedback body.
type FeedbackRequest struct {
	TruePositive *bool `json:"true_positive" validate:"required"`
}

// ListRules returns every rule, or with ?active=true only active rules
// filtered by the optional kind, category and min_weight parameters.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly, _ := strconv.ParseBool(q.Get("active"))

	var (
		list []models.Rule
		err  error
	)
	if activeOnly {
		query := rules.Query{
			Kind:     models.RuleKind(strings.ToLower(q.Get("kind"))),
			Category: q.Get("category"),
		}
		if mw := q.Get("min_weight"); mw != "" {
			if query.MinWeight, err = strconv.ParseFloat(mw, 64); err != nil {
				respondError(w, http.StatusBadRequest, codeValidation, "min_weight must be a number", nil)
				return
			}
		}
		list, err = h.rules.Active(r.Context(), query)
	} else {
		list, err = h.rules.All(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeStorage, "failed to list rules", err)
		return
	}
	if list == nil {
		list = []models.Rule{}
	}
	respondData(w, http.StatusOK, list)
}

// CreateRule adds a rule. A missing weight defaults to 1. ?replace=true
// overwrites an existing rule with the same kind and pattern.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var spec rules.RuleSpec
	if status, err := decodeBody(w, r, h.maxBodyBytes, &spec); err != nil {
		respondError(w, status, codeValidation, "invalid request body", err)
		return
	}
	if spec.Weight == 0 {
		spec.Weight = 1
	}
	replace, _ := strconv.ParseBool(r.URL.Query().Get("replace"))

	id, err := h.rules.Add(r.Context(), spec, replace)
	switch {
	case err == nil:
		respondData(w, http.StatusCreated, CreateRuleResult{ID: id})
	case errors.Is(err, rules.ErrDuplicateRule):
		respondError(w, http.StatusConflict, codeConflict, err.Error(), nil)
	case errors.Is(err, rules.ErrInvalidRule):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, codeStorage, "failed to add rule", err)
	}
}

// UpdateRule toggles a rule or changes its weight.
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	var req UpdateRuleRequest
	if status, err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, status, codeValidation, "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Active == nil && req.Weight == nil {
		respondError(w, http.StatusBadRequest, codeValidation, "active or weight is required", nil)
		return
	}

	if req.Weight != nil {
		if err := h.rules.SetWeight(r.Context(), id, *req.Weight); err != nil {
			respondRuleError(w, err)
			return
		}
	}
	if req.Active != nil {
		if err := h.rules.SetActive(r.Context(), id, *req.Active); err != nil {
			respondRuleError(w, err)
			return
		}
	}

	rule, err := h.rules.Get(r.Context(), id)
	if err != nil {
		respondRuleError(w, err)
		return
	}
	respondData(w, http.StatusOK, rule)
}

// RuleFeedback records a reviewed true or false positive for a rule.
func (h *Handler) RuleFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}

	var req FeedbackRequest
	if status, err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, status, codeValidation, "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.rules.RecordFeedback(r.Context(), id, *req.TruePositive); err != nil {
		respondRuleError(w, err)
		return
	}

	rule, err := h.rules.Get(r.Context(), id)
	if err != nil {
		respondRuleError(w, err)
		return
	}
	respondData(w, http.StatusOK, rules.RuleStats{Rule: rule, Precision: rule.Precision()})
}

// RuleAnalytics returns rule effectiveness counts.
func (h *Handler) RuleAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := rules.BuildAnalytics(r.Context(), h.rules)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeStorage, "failed to build rule analytics", err)
		return
	}
	respondData(w, http.StatusOK, a)
}

func ruleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "rule id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func respondRuleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrRuleNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "rule not found", nil)
	case errors.Is(err, rules.ErrInvalidRule):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, codeStorage, "rule update failed", err)
	}
}
