// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/models"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Score a JSON-lines file of content items and print the campaign report",
		Long: `Each input line is one content item:

  {"id":"1","platform":"twitter","author":"a","body":"...","timestamp":"2026-03-14T10:00:00Z"}

Blank lines are skipped. A malformed or invalid line is logged and skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				r = f
			}

			a, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := processLines(r, func(item models.ContentItem) error {
				_, _, err := a.Processor.Process(cmd.Context(), item)
				return err
			})
			if err != nil {
				return err
			}
			logging.Info().Int("items", n).Msg("Input processed")

			rep, err := a.Aggregator.Generate(cmd.Context(), a.Window)
			if err != nil {
				return err
			}
			return opts.writeJSON(cmd, rep)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON-lines file, or - for stdin")
	return cmd
}

// processLines decodes each non-blank line of r as a ContentItem and hands
// it to fn. It returns the number of items handed over.
func processLines(r io.Reader, fn func(models.ContentItem) error) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	n, line := 0, 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		var item models.ContentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			logging.Warn().Int("line", line).Err(err).Msg("Skipping malformed line")
			continue
		}
		if item.ID == "" || item.Platform == "" {
			logging.Warn().Int("line", line).Msg("Skipping item without id or platform")
			continue
		}

		if err := fn(item); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read input: %w", err)
	}
	return n, nil
}
