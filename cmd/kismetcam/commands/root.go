// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package commands implements the kismetcam command line.
package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/appctx"
	"github.com/kismetcam/kismetcam/pkg/config"
	"github.com/kismetcam/kismetcam/pkg/logging"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
)

const cliExecutable = "kismetcam"

// NewCommand constructs the top-level kismetcam command, wiring global
// flags and loading configuration before any subcommand runs.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Find likely cameras in a Kismet device inventory",
		Long: `kismetcam reads the device inventory of a Kismet server, scores every
device for how likely it is to be a camera and reports the candidates.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := format.ValidateMode(outputFlag(cmd)); err != nil {
				return scanexec.WithErrorCode(err, scanexec.CodeInvalidConfig)
			}

			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				loadErr := scanexec.WithErrorCode(fmt.Errorf("load configuration: %w", err), scanexec.CodeInvalidConfig)
				return reportFailure(format.FromCommand(cmd), "load configuration", loadErr)
			}
			cfg := mgr.Get()

			if err := logging.ConfigureGlobalLogging(effectiveLevel(cfg.Log.Level, verbosityCount), cfg.Log.Format); err != nil {
				return err
			}
			log.Debug().Strs("sources", mgr.Sources()).Msg("Configuration loaded")

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = appctx.WithConfig(ctx, mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return scanexec.WithErrorCode(err, scanexec.CodeInvalidConfig)
	})

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (default ~/.kismetcam/config.yaml)")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase verbosity (repeatable)")
	cmd.PersistentFlags().StringP("output", "o", "table", "Output format: table or json")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress summaries")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "scan", Title: "Scan Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newSourcesCommand())
	cmd.AddCommand(newLookupCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// effectiveLevel raises the configured level by the -v count: one step to
// debug, two or more to trace. It never lowers it.
func effectiveLevel(configured string, verbosity int) string {
	switch {
	case verbosity >= 2:
		return "trace"
	case verbosity == 1 && configured != "trace":
		return "debug"
	}
	return configured
}

func outputFlag(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup("output"); flag != nil {
		return flag.Value.String()
	}
	return ""
}

// settings returns the configuration loaded by the root command.
func settings(cmd *cobra.Command) config.Config {
	return appctx.Settings(cmd.Context())
}

// kismetFlags adds the connection flags shared by commands that talk to
// Kismet. They are layered into configuration by the flag source.
func kismetFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "Kismet server URL (default http://localhost:2501)")
	cmd.Flags().String("api-key", "", "Kismet API key (or KISMET_API_KEY)")
}
