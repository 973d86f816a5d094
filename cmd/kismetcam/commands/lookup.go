// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
	"github.com/kismetcam/kismetcam/pkg/vendorlookup"
)

func newLookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup MAC",
		Short: "Resolve the manufacturer of one hardware address",
		Long: `Resolves a MAC address the way a scan does: the built-in prefix table
first, then the vendor string given with --vendor, then the MAC vendor
service when --use-mac-api is set.`,
		Example: `  kismetcam lookup 00:12:15:aa:bb:cc
  kismetcam lookup 3c:ef:8c:00:00:01 --vendor "Zhejiang Dahua"
  kismetcam lookup f4:f2:6d:00:00:01 --use-mac-api`,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE:    runLookupCommand,
	}
	cmd.Flags().String("vendor", "", "Vendor string as reported by Kismet")
	cmd.Flags().Bool("use-mac-api", false, "Query the MAC vendor service when nothing else matches")
	return cmd
}

func runLookupCommand(cmd *cobra.Command, args []string) error {
	f := format.FromCommand(cmd)
	cfg := settings(cmd)

	mac := manufacturer.NormalizeMAC(args[0])
	if _, ok := vendorlookup.OUI(mac); !ok {
		return reportFailure(f, "lookup", scanexec.WithErrorCode(
			fmt.Errorf("invalid MAC address %q", args[0]), scanexec.CodeInvalidConfig))
	}
	vendor, _ := cmd.Flags().GetString("vendor")

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return reportFailure(f, "lookup", scanexec.WithErrorCode(err, scanexec.CodeInvalidConfig))
	}

	var lookup manufacturer.LookupFunc
	if cfg.Lookup.Enabled {
		lookup = newVendorCache(cfg, nil).Lookup
	}

	info := manufacturer.NewResolver(catalog).Resolve(cmd.Context(), mac, vendor, lookup)

	if f.IsJSON() {
		return f.PrintJSON(map[string]any{
			"mac":          mac,
			"manufacturer": info,
		})
	}

	if info == nil {
		return f.PrintSummary(fmt.Sprintf("%s: manufacturer unknown", mac))
	}

	rows := [][]string{
		{"MAC", mac},
		{"Manufacturer", info.Name},
		{"Category", info.Category},
		{"Source", info.Source},
		{"Confidence", fmt.Sprintf("%.2f", info.Confidence)},
		{"Known camera maker", yesNo(info.IsKnownCamera)},
	}
	if len(info.Aliases) > 0 {
		rows = append(rows, []string{"Aliases", strings.Join(info.Aliases, ", ")})
	}
	return f.PrintTable([]string{"Field", "Value"}, rows)
}
