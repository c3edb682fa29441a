// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package config

import (
	"fmt"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/validation"
)

// Validate runs the struct tag rules of every section, then the checks
// that span fields or sections. Every failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := c.validateProfiles(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return c.validateWindow()
}

// validateProfiles checks both threshold profiles, not only the selected
// one, so switching profiles at runtime cannot fail.
func (c *Config) validateProfiles() error {
	if err := c.Scoring.Standard.Validate(); err != nil {
		return err
	}
	if err := c.Scoring.Light.Validate(); err != nil {
		return err
	}
	_, err := c.Scoring.SelectedProfile()
	return err
}

// validateWindow keeps the report window within what coordination
// detection accepts.
func (c *Config) validateWindow() error {
	if c.Pipeline.WindowMaxItems > c.Coordination.MaxWindowSize {
		return fmt.Errorf("%w: pipeline.window_max_items (%d) exceeds coordination.max_window_size (%d)",
			ErrInvalidConfig, c.Pipeline.WindowMaxItems, c.Coordination.MaxWindowSize)
	}
	return nil
}

// LoggerConfig converts the logging section for logging.Init.
func (c *Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}
