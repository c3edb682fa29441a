// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/validation"
)

var (
	// ErrDuplicateRule is returned by Add when a rule with the same kind
	// and pattern exists and replace was not requested.
	ErrDuplicateRule = errors.New("rule already exists")

	// ErrRuleNotFound is returned for an unknown rule ID.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrInvalidRule wraps validation failures of a RuleSpec.
	ErrInvalidRule = errors.New("invalid rule")
)

// DefaultCategory is used when a RuleSpec has no category.
const DefaultCategory = "general"

// RuleSpec describes a rule to add.
type RuleSpec struct {
	Pattern     string          `json:"pattern" validate:"required,max=500"`
	Kind        models.RuleKind `json:"kind" validate:"rule_kind"`
	Category    string          `json:"category" validate:"max=100"`
	Description string          `json:"description,omitempty" validate:"max=1000"`
	Weight      float64         `json:"weight" validate:"gt=0,lte=100"`
}

// Query filters Active. Zero values match everything.
type Query struct {
	Kind      models.RuleKind
	Category  string
	MinWeight float64
}

func (q Query) matches(r *models.Rule) bool {
	if !r.Active {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Category != "" && !strings.EqualFold(r.Category, q.Category) {
		return false
	}
	return r.Weight >= q.MinWeight
}

// Store is the rule persistence contract.
type Store interface {
	// Add inserts a rule and returns its ID.
	Add(ctx context.Context, spec RuleSpec, replace bool) (int64, error)

	// Get returns one rule, active or not.
	Get(ctx context.Context, id int64) (models.Rule, error)

	// Active returns active rules matching q in rule order.
	Active(ctx context.Context, q Query) ([]models.Rule, error)

	// All returns every rule in insertion order.
	All(ctx context.Context) ([]models.Rule, error)

	// RecordDetection increments the detection count and sets last_detected.
	RecordDetection(ctx context.Context, id int64, at time.Time) error

	// RecordFeedback counts a reviewed true or false positive.
	RecordFeedback(ctx context.Context, id int64, truePositive bool) error

	SetActive(ctx context.Context, id int64, active bool) error
	SetWeight(ctx context.Context, id int64, weight float64) error

	// Version changes whenever the set of active patterns or their weights
	// change. Counter updates do not change it.
	Version() uint64

	Close() error
}

// normalizeSpec validates spec and returns it with its pattern and category
// normalised.
func normalizeSpec(spec RuleSpec) (RuleSpec, error) {
	spec.Kind = models.RuleKind(strings.ToLower(strings.TrimSpace(string(spec.Kind))))
	spec.Pattern = models.NormalizePattern(spec.Kind, spec.Pattern)
	spec.Category = strings.TrimSpace(spec.Category)
	if spec.Category == "" {
		spec.Category = DefaultCategory
	}

	if err := validation.ValidateStruct(&spec); err != nil {
		return spec, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	if spec.Pattern == "#" {
		return spec, fmt.Errorf("%w: empty hashtag", ErrInvalidRule)
	}
	if spec.Kind == models.RuleKindRegex {
		if _, err := compileRegex(spec.Pattern); err != nil {
			return spec, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
	}
	return spec, nil
}

func validWeight(weight float64) error {
	if weight <= 0 || weight > 100 {
		return fmt.Errorf("%w: weight must be in (0, 100], got %v", ErrInvalidRule, weight)
	}
	return nil
}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

func duplicateError(spec RuleSpec) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicateRule, spec.Kind, spec.Pattern)
}

// sortRules orders rules by weight desc, detection count desc, insertion asc.
func sortRules(rs []models.Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := &rs[i], &rs[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.DetectionCount != b.DetectionCount {
			return a.DetectionCount > b.DetectionCount
		}
		return a.Seq < b.Seq
	})
}

func cloneRule(r *models.Rule) models.Rule {
	out := *r
	if r.LastDetected != nil {
		t := *r.LastDetected
		out.LastDetected = &t
	}
	return out
}
