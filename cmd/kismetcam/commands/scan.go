// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/bind"
	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/classify"
	"github.com/kismetcam/kismetcam/pkg/config"
	"github.com/kismetcam/kismetcam/pkg/kismet"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
	"github.com/kismetcam/kismetcam/pkg/metrics"
	"github.com/kismetcam/kismetcam/pkg/output"
	"github.com/kismetcam/kismetcam/pkg/probe"
	"github.com/kismetcam/kismetcam/pkg/report"
	"github.com/kismetcam/kismetcam/pkg/results"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
	"github.com/kismetcam/kismetcam/pkg/vendorlookup"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score the Kismet inventory and report camera candidates",
		Long: `Fetches the device inventory from Kismet, scores each device for how
likely it is to be a camera and prints the candidates above the threshold.
With --watch the scan repeats until interrupted.`,
		Example: `  kismetcam scan --api-key <key>
  kismetcam scan --category-filter camera --frequency-band 2.4GHz
  kismetcam scan --group-by-manufacturer --export cams.csv
  kismetcam scan --watch 30s --metrics-addr :9108`,
		GroupID: "scan",
		Args:    cobra.NoArgs,
		RunE:    runScanCommand,
	}

	kismetFlags(cmd)
	f := cmd.Flags()
	f.Int64("since", 0, "Only devices seen since this Unix timestamp")
	f.Bool("use-mac-api", false, "Look up unknown manufacturers with the MAC vendor service")
	f.Bool("no-probe", false, "Do not probe camera ports of candidates")

	f.String("manufacturer-filter", "", "Keep candidates whose manufacturer or alias contains this text")
	f.String("category-filter", "", "Keep one manufacturer category: camera, networking, computing, iot")
	f.Float64("exact-frequency", 0, fmt.Sprintf("Keep candidates within %g GHz of this frequency (GHz)", results.DefaultFrequencyTolerance))
	f.String("frequency-range", "", "Keep candidates inside a GHz range, e.g. 2.4-2.5")
	f.String("frequency-band", "", "Keep one band: 2.4GHz, 5GHz, 6GHz")
	f.String("channel-filter", "", "Keep candidates on this channel")
	f.Float64("min-confidence", 0, "Keep candidates at or above this confidence (0-1)")

	f.Bool("group-by-manufacturer", false, "Group the report by manufacturer")
	f.Bool("group-by-frequency", false, "Group the report by frequency")
	f.Bool("no-manufacturer-summary", false, "Omit the manufacturer summary")
	f.Bool("no-frequency-summary", false, "Omit the frequency summary")

	f.String("export", "", "Write candidates to a .json, .csv or .yaml file")
	f.Duration("watch", 0, "Repeat the scan at this interval until interrupted")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address in watch mode")
	f.Bool("progress", false, "Show scan progress on stderr")

	return cmd
}

func runScanCommand(cmd *cobra.Command, _ []string) error {
	formatter := format.FromCommand(cmd)
	cfg := settings(cmd)
	logger := log.With().Str("command", "scan").Logger()

	if cfg.Kismet.APIKey == "" {
		return reportFailure(formatter, "scan", scanexec.ErrMissingAPIKey)
	}

	opts, err := bind.BindScanOptions(cmd, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to bind scan options")
		return reportFailure(formatter, "scan", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return reportFailure(formatter, "scan", scanexec.WithErrorCode(err, scanexec.CodeInvalidConfig))
	}

	m := metrics.New()
	svc := newScanService(cfg, catalog, m)

	stream := setupOutputPipeline(cmd, formatter, opts.Progress)
	if stream.SubscriberCount() > 0 {
		svc = svc.WithProgressSink(output.NewScanProgress(stream))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Watch <= 0 {
		return runScanOnce(ctx, formatter, svc, opts)
	}
	return runWatch(ctx, formatter, svc, opts, m, cfg.Manufacturer.Catalog, logger)
}

func newKismetClient(cfg config.Config) *kismet.Client {
	return kismet.NewClient(kismet.Config{
		Host:          cfg.Kismet.Host,
		APIKey:        cfg.Kismet.APIKey,
		Timeout:       cfg.Kismet.Timeout,
		StatusTimeout: cfg.Kismet.StatusTimeout,
	})
}

func newScanService(cfg config.Config, catalog *manufacturer.Catalog, m *metrics.Metrics) *scanexec.Service {
	return scanexec.NewService(newKismetClient(cfg), manufacturer.NewResolver(catalog)).
		WithMetrics(m).
		WithProber(probe.New(cfg.Probe.Timeout, m)).
		WithVendorLookup(func() classify.VendorLookup {
			return newVendorCache(cfg, m)
		})
}

func newVendorCache(cfg config.Config, m *metrics.Metrics) *vendorlookup.Cache {
	return vendorlookup.NewCache(vendorlookup.NewClient(cfg.Lookup.BaseURL), vendorlookup.Options{
		Timeout:      cfg.Lookup.Timeout,
		RetryTimeout: cfg.Lookup.RetryTimeout,
		RetryDelay:   cfg.Lookup.RetryDelay,
		Rate:         cfg.Lookup.Rate,
	}, m)
}

// loadCatalog returns the built-in catalog, extended by the configured
// external catalog when there is one.
func loadCatalog(cfg config.Config) (*manufacturer.Catalog, error) {
	if cfg.Manufacturer.Catalog == "" {
		return manufacturer.LoadBuiltin()
	}
	cat, err := manufacturer.LoadFile(cfg.Manufacturer.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load manufacturer catalog: %w", err)
	}
	return cat, nil
}

func runScanOnce(ctx context.Context, f format.Formatter, svc *scanexec.Service, opts bind.ScanOptions) error {
	res, err := svc.Run(ctx, opts.Params)
	if err != nil {
		return reportFailure(f, "scan", err)
	}
	if err := renderScan(f, res, opts); err != nil {
		return err
	}
	if err := exportScan(ctx, f, res, opts.ExportPath); err != nil {
		return reportFailure(f, "export", err)
	}
	return nil
}

// runWatch scans every opts.Watch until ctx is done. The metrics endpoint
// and the catalog watcher run next to the scan loop; scans never overlap.
func runWatch(ctx context.Context, f format.Formatter, svc *scanexec.Service, opts bind.ScanOptions, m *metrics.Metrics, catalogPath string, logger zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	if opts.MetricsAddr != "" {
		g.Go(func() error {
			return m.Serve(gctx, opts.MetricsAddr)
		})
	}
	if catalogPath != "" {
		g.Go(func() error {
			return manufacturer.Watch(gctx, catalogPath, svc.SetCatalog)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(opts.Watch)
		defer ticker.Stop()

		for cycle := 1; ; cycle++ {
			logger.Debug().Int("cycle", cycle).Msg("Starting scan cycle")
			res, err := svc.Run(gctx, opts.Params)
			switch {
			case scanexec.IsCancelled(err):
				return nil
			case err != nil:
				return reportFailure(f, "scan", err)
			}

			if err := renderScan(f, res, opts); err != nil {
				return err
			}
			if err := exportScan(gctx, f, res, opts.ExportPath); err != nil {
				// the next cycle rewrites the file anyway
				logger.Warn().Err(err).Int("cycle", cycle).Msg("Export failed")
				_ = f.PrintError(err)
			}

			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	if err := g.Wait(); err != nil {
		if IsReported(err) {
			return err
		}
		return reportFailure(f, "watch", err)
	}
	logger.Info().Msg("Watch stopped")
	return nil
}

func renderScan(f format.Formatter, res *scanexec.Result, opts bind.ScanOptions) error {
	if f.IsJSON() {
		return f.PrintJSON(res)
	}

	p := report.NewPresenter(f.Out(), f.Colored())
	for _, w := range res.Warnings {
		_ = f.PrintError(fmt.Errorf("warning: %s", w))
	}
	p.FilterSteps(res.Filters)

	switch opts.GroupBy {
	case bind.GroupManufacturer:
		p.GroupedByManufacturer(res.Candidates)
	case bind.GroupFrequency:
		p.GroupedByFrequency(res.Candidates)
	default:
		p.Results(res.Candidates)
	}

	summary := results.Summarize(res.Candidates)
	if opts.ManufacturerSummary {
		p.ManufacturerSummary(summary)
	}
	if opts.FrequencySummary {
		p.FrequencySummary(summary)
	}

	return f.PrintSummary(fmt.Sprintf("Scan %s: %d devices seen, %d camera candidates (%s)",
		res.Status, res.DevicesSeen, len(res.Candidates), res.EndTime.Sub(res.StartTime).Round(time.Millisecond)))
}

func exportScan(ctx context.Context, f format.Formatter, res *scanexec.Result, path string) error {
	if path == "" {
		return nil
	}
	doc := report.Document{
		ScanID:      res.ScanID,
		GeneratedAt: res.EndTime,
		Total:       len(res.Candidates),
		Candidates:  res.Candidates,
	}
	if err := report.Export(ctx, path, doc); err != nil {
		return scanexec.WithErrorCode(fmt.Errorf("export %s: %w", path, err), scanexec.CodeExportFailed)
	}
	return f.PrintSuccessSummary("export", fmt.Sprintf("%d candidates written to %s", doc.Total, path))
}
