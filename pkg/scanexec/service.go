// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package scanexec runs one scan cycle: fetch the Kismet inventory, parse
// and classify it, then apply the requested filters.
package scanexec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kismetcam/kismetcam/pkg/classify"
	"github.com/kismetcam/kismetcam/pkg/device"
	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/kismet"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
	"github.com/kismetcam/kismetcam/pkg/metrics"
	"github.com/kismetcam/kismetcam/pkg/results"
)

// Scan statuses.
const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Inventory is the source of raw device records.
type Inventory interface {
	Devices(ctx context.Context, since int64) ([]json.RawMessage, error)
	Status(ctx context.Context) (kismet.Status, error)
}

type ProgressSink interface {
	OnEvent(ProgressEvent)
}

type ProgressEvent struct {
	Phase      string
	Status     string
	Device     string
	Confidence float64
	Message    string
	Timestamp  time.Time
}

// Params selects the optional escalations and filters of one scan.
type Params struct {
	Since           int64
	UseVendorLookup bool
	Probe           bool
	Filter          results.Filter
}

// Result is the outcome of one scan cycle.
type Result struct {
	ScanID      string                     `json:"scan_id"`
	Status      string                     `json:"status"`
	StartTime   time.Time                  `json:"start_time"`
	EndTime     time.Time                  `json:"end_time"`
	DevicesSeen int                        `json:"devices_seen"`
	NearMisses  int                        `json:"near_misses"`
	Classified  int                        `json:"classified"`
	Candidates  []classify.CameraCandidate `json:"candidates"`
	Filters     []results.FilterStep       `json:"filters,omitempty"`
	Warnings    []string                   `json:"warnings,omitempty"`
}

// Service orchestrates scans against one inventory.
type Service struct {
	inventory     Inventory
	resolver      atomic.Pointer[manufacturer.Resolver]
	lookupFactory func() classify.VendorLookup
	prober        classify.Prober
	metrics       *metrics.Metrics
	progressSink  ProgressSink
	now           func() time.Time
	logger        zerolog.Logger
}

// NewService builds a Service that resolves manufacturers with resolver.
func NewService(inventory Inventory, resolver *manufacturer.Resolver) *Service {
	s := &Service{
		inventory: inventory,
		now:       time.Now,
		logger:    log.With().Str("component", "scanexec").Logger(),
	}
	s.resolver.Store(resolver)
	return s
}

// WithProgressSink attaches a sink to receive progress notifications.
func (s *Service) WithProgressSink(sink ProgressSink) *Service {
	s.progressSink = sink
	return s
}

// WithVendorLookup sets the factory for the per-scan vendor lookup. Each
// scan gets a fresh lookup so cached answers never outlive a cycle.
func (s *Service) WithVendorLookup(factory func() classify.VendorLookup) *Service {
	s.lookupFactory = factory
	return s
}

// WithProber sets the port prober used when Params.Probe is set.
func (s *Service) WithProber(p classify.Prober) *Service {
	s.prober = p
	return s
}

// WithMetrics records scan outcomes on m.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// SetCatalog swaps the manufacturer catalog for subsequent scans. It is
// safe to call while a scan is running.
func (s *Service) SetCatalog(c *manufacturer.Catalog) {
	s.resolver.Store(manufacturer.NewResolver(c))
	s.logger.Info().Int("ouis", c.Len()).Msg("Manufacturer catalog reloaded")
}

// Resolver returns the resolver the next scan will use.
func (s *Service) Resolver() *manufacturer.Resolver {
	return s.resolver.Load()
}

// CheckConnection queries the server status.
func (s *Service) CheckConnection(ctx context.Context) (kismet.Status, error) {
	s.emit("connect", "start", "", 0, "")
	st, err := s.inventory.Status(ctx)
	if err != nil {
		s.emit("connect", StatusFailed, "", 0, err.Error())
		return kismet.Status{}, WithErrorCode(fmt.Errorf("%w: %w", ErrConnectionFailed, err), CodeConnectionFailed)
	}
	s.emit("connect", StatusCompleted, "", 0, st.Version)
	return st, nil
}

// Run executes one scan. Inventory failures degrade to an empty inventory
// and are reported in the result; only invalid parameters and
// cancellation are returned as errors.
func (s *Service) Run(ctx context.Context, params Params) (*Result, error) {
	if err := ValidateFilter(params.Filter); err != nil {
		return nil, err
	}

	res := &Result{
		ScanID:    uuid.NewString(),
		Status:    StatusCompleted,
		StartTime: s.now(),
	}
	logger := s.logger.With().Str("scan_id", res.ScanID).Logger()

	s.emit("fetch", "start", "", 0, "")
	records, err := s.inventory.Devices(ctx, params.Since)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting devices")
		res.Status = StatusDegraded
		res.Warnings = append(res.Warnings, fmt.Sprintf("inventory unavailable: %v", err))
		records = nil
	}
	res.DevicesSeen = len(records)
	s.metrics.DevicesSeen(len(records))
	s.emit("fetch", StatusCompleted, "", 0, fmt.Sprintf("devices=%d", len(records)))

	resolver := s.resolver.Load()
	devices := device.NewParser(resolver).ParseAll(records)

	obs := &scanObserver{service: s}
	opts := []classify.Option{classify.WithObserver(obs)}
	if params.UseVendorLookup && s.lookupFactory != nil {
		opts = append(opts, classify.WithVendorLookup(s.lookupFactory()))
	}
	if params.Probe && s.prober != nil {
		opts = append(opts, classify.WithProber(s.prober))
	}

	s.emit("classify", "start", "", 0, "")
	candidates := classify.NewEngine(resolver, opts...).Classify(ctx, devices)
	res.Classified = len(candidates)
	res.NearMisses = obs.nearMisses
	s.emit("classify", StatusCompleted, "", 0, fmt.Sprintf("candidates=%d", len(candidates)))

	res.Candidates, res.Filters = params.Filter.Apply(candidates)
	for _, step := range res.Filters {
		logger.Info().Msg(step.String())
	}
	if res.Candidates == nil {
		res.Candidates = []classify.CameraCandidate{}
	}

	res.EndTime = s.now()
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.Status = StatusCancelled
		s.metrics.ScanFinished(res.Status, res.EndTime.Sub(res.StartTime), len(res.Candidates))
		return res, ctxErr
	}
	s.metrics.ScanFinished(res.Status, res.EndTime.Sub(res.StartTime), len(res.Candidates))

	logger.Info().
		Int("devices", res.DevicesSeen).
		Int("candidates", len(res.Candidates)).
		Str("status", res.Status).
		Msg("Scan finished")
	return res, nil
}

var (
	validCategories = []string{
		manufacturer.CategoryCamera,
		manufacturer.CategoryNetworking,
		manufacturer.CategoryComputing,
		manufacturer.CategoryIoT,
	}
	validBands = []string{frequency.Band24GHz, frequency.Band5GHz, frequency.Band6GHz}
)

// ValidateFilter rejects category and band values outside their fixed
// sets and confidences outside [0, 1]. Malformed frequency ranges are left
// to the filter, which keeps nothing for them.
func ValidateFilter(f results.Filter) error {
	if f.Category != "" && !slices.Contains(validCategories, f.Category) {
		return NewInvalidFilterError("category", f.Category)
	}
	if f.Band != "" && !slices.Contains(validBands, f.Band) {
		return NewInvalidFilterError("frequency band", f.Band)
	}
	if f.MinConfidence < 0 || f.MinConfidence > 1 {
		return NewInvalidFilterError("min confidence", fmt.Sprint(f.MinConfidence))
	}
	return nil
}

// IsCancelled reports whether err ended a scan through cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Service) emit(phase, status, dev string, confidence float64, msg string) {
	if s.progressSink == nil {
		return
	}
	s.progressSink.OnEvent(ProgressEvent{
		Phase:      phase,
		Status:     status,
		Device:     dev,
		Confidence: confidence,
		Message:    msg,
		Timestamp:  time.Now(),
	})
}

// scanObserver forwards engine callbacks to metrics and the progress sink.
type scanObserver struct {
	service    *Service
	nearMisses int
}

func (o *scanObserver) OnNearMiss(d *device.Device, confidence float64, reasons []string) {
	o.nearMisses++
	o.service.metrics.NearMiss()
	o.service.emit("classify", "near_miss", d.DisplayName(), confidence, fmt.Sprint(reasons))
}

func (o *scanObserver) OnCandidate(c classify.CameraCandidate) {
	category := ""
	if c.Device.Manufacturer != nil {
		category = c.Device.Manufacturer.Category
	}
	o.service.metrics.Candidate(category)
	o.service.emit("classify", "candidate", c.Device.DisplayName(), c.Confidence, "")
}
