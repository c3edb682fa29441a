// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/campaignwatch/internal/app"
	"github.com/tomtom215/campaignwatch/internal/config"
	"github.com/tomtom215/campaignwatch/internal/logging"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	persist    bool
	verbose    bool
	pretty     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "campaignctl",
		Short:         "Score content and build coordinated-campaign reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.configPath != "" {
				if err := os.Setenv(config.ConfigPathEnvVar, opts.configPath); err != nil {
					return err
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: "+config.ConfigPathEnvVar+" or ./config.yaml)")
	root.PersistentFlags().BoolVar(&opts.persist, "persist", false, "use the configured BadgerDB and DuckDB stores instead of memory")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at the configured level instead of warn")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(newScoreCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newRulesCmd(opts))

	return root
}

// open loads configuration and wires the components. Callers must Close
// the returned App.
func (o *rootOptions) open(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	if !o.verbose {
		lc.Level = "warn"
	}
	logging.Init(lc)

	return app.New(ctx, cfg, app.Options{InMemory: !o.persist})
}

func (o *rootOptions) writeJSON(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	if o.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
