// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
	"github.com/kismetcam/kismetcam/pkg/stringutil"
)

const maxCellWidth = 40

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Test the connection to the Kismet server",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE:    runStatusCommand,
	}
	kismetFlags(cmd)
	return cmd
}

func runStatusCommand(cmd *cobra.Command, _ []string) error {
	f := format.FromCommand(cmd)
	cfg := settings(cmd)
	if cfg.Kismet.APIKey == "" {
		return reportFailure(f, "connect", scanexec.ErrMissingAPIKey)
	}

	svc := scanexec.NewService(newKismetClient(cfg), manufacturer.NewResolver(manufacturer.MustLoadBuiltin()))
	st, err := svc.CheckConnection(cmd.Context())
	if err != nil {
		return reportFailure(f, "connect", err)
	}

	if f.IsJSON() {
		return f.PrintJSON(map[string]any{
			"success": true,
			"host":    cfg.Kismet.Host,
			"status":  st,
		})
	}

	rows := [][]string{
		{"Host", cfg.Kismet.Host},
		{"Version", st.Version},
	}
	if st.ServerName != "" {
		rows = append(rows, []string{"Server", st.ServerName})
	}
	if st.StartTime > 0 {
		rows = append(rows, []string{"Started", time.Unix(st.StartTime, 0).UTC().Format(time.RFC3339)})
	}
	rows = append(rows, []string{"Devices", strconv.FormatInt(st.Devices, 10)})

	if err := f.PrintTable([]string{"Field", "Value"}, rows); err != nil {
		return err
	}
	return f.PrintSummary(fmt.Sprintf("✓ Connected to Kismet %s", st.Version))
}

func newSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sources",
		Short:   "List the Kismet capture sources",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE:    runSourcesCommand,
	}
	kismetFlags(cmd)
	return cmd
}

func runSourcesCommand(cmd *cobra.Command, _ []string) error {
	f := format.FromCommand(cmd)
	cfg := settings(cmd)
	if cfg.Kismet.APIKey == "" {
		return reportFailure(f, "list sources", scanexec.ErrMissingAPIKey)
	}

	sources, err := newKismetClient(cfg).Sources(cmd.Context())
	if err != nil {
		return reportFailure(f, "list sources", scanexec.NewConnectionError(cfg.Kismet.Host, err))
	}

	if f.IsJSON() {
		return f.PrintJSON(sources)
	}

	rows := make([][]string, 0, len(sources))
	for _, s := range sources {
		rows = append(rows, []string{
			stringutil.Ellipsis(s.Name, maxCellWidth),
			s.Interface,
			s.Driver,
			stringutil.Ellipsis(s.Hardware, maxCellWidth),
			s.Channel,
			yesNo(s.Hopping),
			yesNo(s.Running),
		})
	}
	if err := f.PrintTable([]string{"Name", "Interface", "Driver", "Hardware", "Channel", "Hopping", "Running"}, rows); err != nil {
		return err
	}
	return f.PrintSummary(fmt.Sprintf("%d capture sources", len(sources)))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
