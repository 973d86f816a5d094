// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/version"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := format.FromCommand(cmd)
			info := version.Get()
			if f.IsJSON() {
				return f.PrintJSON(info)
			}

			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, info.Version)
				return err
			}
			fmt.Fprintln(out, version.Info())
			fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
