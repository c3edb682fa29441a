// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tomtom215/campaignwatch/internal/models"
)

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var platform, author string

	cmd := &cobra.Command{
		Use:   "score [text...]",
		Short: "Score one piece of text (from arguments, or stdin when none)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return fmt.Errorf("no text to score")
			}

			a, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			scored, err := a.Scorer.Score(cmd.Context(), models.ContentItem{
				ID:        uuid.NewString(),
				Platform:  platform,
				Author:    author,
				Body:      text,
				Timestamp: time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			return opts.writeJSON(cmd, scored)
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "cli", "platform recorded on the item")
	cmd.Flags().StringVar(&author, "author", "", "author recorded on the item")
	return cmd
}
