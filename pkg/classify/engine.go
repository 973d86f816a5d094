// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package classify scores devices for the likelihood of being a camera.
//
// Scoring combines independent weak signals (manufacturer, frequency, name,
// device type, packet counters and vendor string). Devices that look
// promising can be escalated to an external vendor lookup, and candidates
// clearing the threshold can be escalated to a TCP port probe.
package classify

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kismetcam/kismetcam/pkg/device"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

// Threshold is the minimum confidence of a camera candidate.
const Threshold = 0.3

// lookupFloor is the confidence a device needs before an external vendor
// lookup is spent on it.
const lookupFloor = 0.1

// portBonus is added once when any camera port answers.
const portBonus = 0.2

// CameraPorts lists camera service ports in probing priority order.
var CameraPorts = []int{554, 80, 8080, 443, 8000, 8554, 9080, 1935, 5000, 8001}

// Probe limits per candidate.
const (
	maxProbeAddresses = 3
	maxProbePorts     = 3
)

// CameraCandidate is a device that cleared the threshold.
type CameraCandidate struct {
	Device     *device.Device `json:"device" yaml:"device"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Reasons    []string       `json:"reasons" yaml:"reasons"`
	OpenPorts  []int          `json:"open_ports,omitempty" yaml:"open_ports,omitempty"`
}

// VendorLookup resolves the vendor of a hardware address through an external
// service. Failures, misses and rate limiting all report false.
type VendorLookup interface {
	Lookup(ctx context.Context, mac string) (string, bool)
}

// Prober reports whether a TCP port accepts connections.
type Prober interface {
	Probe(ctx context.Context, addr string, port int) bool
}

// Observer is told about every device the engine keeps or narrowly drops.
type Observer interface {
	OnNearMiss(d *device.Device, confidence float64, reasons []string)
	OnCandidate(c CameraCandidate)
}

// Engine classifies devices. It is safe for sequential reuse across scans.
type Engine struct {
	resolver *manufacturer.Resolver
	lookup   VendorLookup
	prober   Prober
	observer Observer
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithVendorLookup enables escalation to an external vendor lookup.
func WithVendorLookup(l VendorLookup) Option {
	return func(e *Engine) { e.lookup = l }
}

// WithProber enables port probing of candidates.
func WithProber(p Prober) Option {
	return func(e *Engine) { e.prober = p }
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine returns an Engine that builds looked-up manufacturers with
// resolver. Without options it performs no external calls.
func NewEngine(resolver *manufacturer.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		logger:   log.With().Str("component", "classify").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify scores devices and returns the candidates ordered by descending
// confidence. Equal confidences keep their input order. The input slice is
// not modified.
func (e *Engine) Classify(ctx context.Context, devices []device.Device) []CameraCandidate {
	var candidates []CameraCandidate

	for i := range devices {
		d := devices[i]
		if c, ok := e.classifyOne(ctx, &d); ok {
			candidates = append(candidates, c)
		}
	}

	slices.SortStableFunc(candidates, func(a, b CameraCandidate) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return candidates
}

func (e *Engine) classifyOne(ctx context.Context, d *device.Device) (CameraCandidate, bool) {
	conf, reasons := Score(d, d.Counters())
	s := score{confidence: conf, reasons: reasons}

	s = e.escalateLookup(ctx, d, s)

	if s.confidence < Threshold {
		if s.confidence > 0 {
			e.logger.Debug().
				Str("device", d.DisplayName()).
				Float64("confidence", s.confidence).
				Strs("reasons", s.reasons).
				Msg("Near-miss candidate")
			if e.observer != nil {
				e.observer.OnNearMiss(d, s.confidence, s.reasons)
			}
		}
		return CameraCandidate{}, false
	}

	openPorts := e.probe(ctx, d.IPAddresses)
	if len(openPorts) > 0 {
		s = s.with(portBonus, "Open camera ports: "+formatPorts(openPorts))
	}

	c := CameraCandidate{
		Device:     d,
		Confidence: math.Min(s.confidence, 1),
		Reasons:    s.reasons,
		OpenPorts:  openPorts,
	}
	if e.observer != nil {
		e.observer.OnCandidate(c)
	}
	return c, true
}

// escalateLookup asks the external vendor service about promising devices
// whose manufacturer is unknown or only inferred. Unpromising devices with
// no manufacturer are marked as unresolved.
func (e *Engine) escalateLookup(ctx context.Context, d *device.Device, s score) score {
	if e.lookup == nil {
		return s
	}
	if s.confidence <= lookupFloor {
		if d.Manufacturer == nil {
			s = s.with(0, "MAC vendor API lookup failed")
		}
		return s
	}
	if d.Manufacturer != nil && d.Manufacturer.Source != manufacturer.SourceInferred {
		return s
	}

	vendor, ok := e.lookup.Lookup(ctx, d.MAC)
	if !ok || !manufacturer.UsableVendor(vendor) {
		return s
	}

	m := e.resolver.Build(vendor, manufacturer.SourceMACAPI, manufacturer.MACAPIConfidence, vendor)
	d.Manufacturer = m

	c := ManufacturerContribution(m)
	if c <= 0 {
		return s
	}
	reason := ""
	if c > 0.2 {
		reason = "Camera manufacturer from API: " + m.Name
	}
	return s.with(c, reason)
}

// probe checks the first ports of the priority list on the first addresses,
// moving to the next address as soon as one port answers.
func (e *Engine) probe(ctx context.Context, addrs []string) []int {
	if e.prober == nil {
		return nil
	}

	var open []int
	for _, addr := range addrs[:min(len(addrs), maxProbeAddresses)] {
		for _, port := range CameraPorts[:maxProbePorts] {
			if e.prober.Probe(ctx, addr, port) {
				open = append(open, port)
				break
			}
		}
	}
	return open
}

// formatPorts renders ports as "[554, 80]".
func formatPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
