// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

// Package validation wraps go-playground/validator v10 with a shared,
// thread-safe instance and Campaignwatch-specific tags.
//
// Custom tags:
//   - threat_level: NONE, LOW, MEDIUM, HIGH or CRITICAL (case-insensitive)
//   - rule_kind: keyword, hashtag or regex
//   - regexp: a pattern that compiles with regexp.Compile
//
// Errors come back as *RequestValidationError, which the API layer turns
// into a VALIDATION_ERROR response and the config loader wraps in
// config.ErrInvalidConfig.
package validation
