// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package bind

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kismetcam/kismetcam/pkg/config"
	"github.com/kismetcam/kismetcam/pkg/report"
	"github.com/kismetcam/kismetcam/pkg/results"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
)

// Grouping of the text report.
const (
	GroupNone         = ""
	GroupManufacturer = "manufacturer"
	GroupFrequency    = "frequency"
)

// ScanOptions contains validated options for the scan command.
type ScanOptions struct {
	Params scanexec.Params

	GroupBy             string
	ManufacturerSummary bool
	FrequencySummary    bool
	ExportPath          string
	Progress            bool

	Watch       time.Duration
	MetricsAddr string
}

// BindScanOptions extracts and validates scan flags from the command.
// Settings that also live in configuration (vendor lookup, probing, watch
// interval, metrics address) are taken from cfg, which already has the
// flags layered on top.
//
// Flags read:
//   - --since, --progress, --export
//   - --manufacturer-filter, --category-filter, --exact-frequency,
//     --frequency-range, --frequency-band, --channel-filter, --min-confidence
//   - --group-by-manufacturer, --group-by-frequency
//   - --no-manufacturer-summary, --no-frequency-summary
func BindScanOptions(cmd *cobra.Command, cfg config.Config) (ScanOptions, error) {
	flags := cmd.Flags()

	since, _ := flags.GetInt64("since")
	progress, _ := flags.GetBool("progress")
	exportPath, _ := flags.GetString("export")
	byManufacturer, _ := flags.GetBool("group-by-manufacturer")
	byFrequency, _ := flags.GetBool("group-by-frequency")
	noManufacturerSummary, _ := flags.GetBool("no-manufacturer-summary")
	noFrequencySummary, _ := flags.GetBool("no-frequency-summary")

	opts := ScanOptions{
		Params: scanexec.Params{
			Since:           since,
			UseVendorLookup: cfg.Lookup.Enabled,
			Probe:           cfg.Probe.Enabled,
			Filter:          bindFilter(cmd),
		},
		ManufacturerSummary: !noManufacturerSummary,
		FrequencySummary:    !noFrequencySummary,
		ExportPath:          exportPath,
		Progress:            progress,
		Watch:               cfg.Watch.Interval,
		MetricsAddr:         cfg.Metrics.Addr,
	}

	switch {
	case byManufacturer && byFrequency:
		return opts, scanexec.WithErrorCode(
			errors.New("--group-by-manufacturer and --group-by-frequency are mutually exclusive"),
			scanexec.CodeInvalidConfig)
	case byManufacturer:
		opts.GroupBy = GroupManufacturer
	case byFrequency:
		opts.GroupBy = GroupFrequency
	}

	if since < 0 {
		return opts, scanexec.WithErrorCode(fmt.Errorf("--since must not be negative, got %d", since), scanexec.CodeInvalidConfig)
	}

	if exportPath != "" {
		if _, err := report.FormatFor(exportPath); err != nil {
			return opts, scanexec.WithErrorCode(err, scanexec.CodeExportFailed)
		}
	}

	if err := scanexec.ValidateFilter(opts.Params.Filter); err != nil {
		return opts, err
	}

	return opts, nil
}

func bindFilter(cmd *cobra.Command) results.Filter {
	flags := cmd.Flags()

	var f results.Filter
	f.Manufacturer, _ = flags.GetString("manufacturer-filter")
	f.Category, _ = flags.GetString("category-filter")
	f.FrequencyRange, _ = flags.GetString("frequency-range")
	f.Band, _ = flags.GetString("frequency-band")
	f.Channel, _ = flags.GetString("channel-filter")
	f.MinConfidence, _ = flags.GetFloat64("min-confidence")

	// zero is a valid frequency, so presence decides
	if flag := flags.Lookup("exact-frequency"); flag != nil && flag.Changed {
		ghz, _ := flags.GetFloat64("exact-frequency")
		f.ExactFrequency = &ghz
	}
	return f
}
