// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/campaignwatch/internal/models"
	"github.com/tomtom215/campaignwatch/internal/rules"
)

func newRulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and manage detection rules",
	}
	cmd.AddCommand(newRulesListCmd(opts))
	cmd.AddCommand(newRulesAddCmd(opts))
	return cmd
}

func newRulesListCmd(opts *rootOptions) *cobra.Command {
	var (
		activeOnly bool
		asJSON     bool
		query      rules.Query
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var list []models.Rule
			if activeOnly {
				query.Kind = models.RuleKind(strings.ToLower(kind))
				list, err = a.Rules.Active(cmd.Context(), query)
			} else {
				list, err = a.Rules.All(cmd.Context())
			}
			if err != nil {
				return err
			}

			if asJSON {
				if list == nil {
					list = []models.Rule{}
				}
				return opts.writeJSON(cmd, list)
			}
			return writeRuleTable(cmd, list)
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active rules, with the filters below")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind: keyword, hashtag or regex")
	cmd.Flags().StringVar(&query.Category, "category", "", "filter by category")
	cmd.Flags().Float64Var(&query.MinWeight, "min-weight", 0, "filter by minimum weight")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeRuleTable(cmd *cobra.Command, list []models.Rule) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tPATTERN\tCATEGORY\tWEIGHT\tACTIVE\tDETECTIONS\tPRECISION")
	for i := range list {
		r := &list[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\t%t\t%d\t%.2f\n",
			r.ID, r.Kind, r.Pattern, r.Category, r.Weight, r.Active, r.DetectionCount, r.Precision())
	}
	return tw.Flush()
}

func newRulesAddCmd(opts *rootOptions) *cobra.Command {
	var (
		spec    rules.RuleSpec
		kind    string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "add PATTERN",
		Short: "Add a rule (use --persist to keep it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Pattern = args[0]
			spec.Kind = models.RuleKind(strings.ToLower(kind))

			a, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.Rules.Add(cmd.Context(), spec, replace)
			if err != nil {
				return err
			}
			rule, err := a.Rules.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.writeJSON(cmd, rule)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(models.RuleKindKeyword), "keyword, hashtag or regex")
	cmd.Flags().StringVar(&spec.Category, "category", "", "rule category")
	cmd.Flags().StringVar(&spec.Description, "description", "", "free-form description")
	cmd.Flags().Float64Var(&spec.Weight, "weight", 1, "rule weight in (0, 100]")
	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite an existing rule with the same kind and pattern")
	return cmd
}
