// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package metrics exposes scan counters to Prometheus. A nil *Metrics is
// valid and records nothing, so callers never need to check for it.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "kismetcam"

// Lookup and probe outcomes.
const (
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultCached      = "cached"
	ResultRateLimited = "rate_limited"
	ResultError       = "error"
	ResultOpen        = "open"
	ResultClosed      = "closed"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	devicesSeen    prometheus.Counter
	candidates     *prometheus.CounterVec
	nearMisses     prometheus.Counter
	lookups        *prometheus.CounterVec
	probes         *prometheus.CounterVec
	scans          *prometheus.CounterVec
	scanDuration   prometheus.Histogram
	lastCandidates prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		devicesSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "devices_seen_total",
			Help:      "Devices returned by Kismet across all scans",
		}),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camera_candidates_total",
			Help:      "Devices classified as camera candidates",
		}, []string{"category"}),
		nearMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "near_misses_total",
			Help:      "Devices scoring above zero but below the candidate threshold",
		}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendor_lookups_total",
			Help:      "External vendor lookups by result",
		}, []string{"result"}),
		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "port_probes_total",
			Help:      "TCP port probes by result",
		}, []string{"result"}),
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Completed scans by status",
		}, []string{"status"}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of one scan",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		lastCandidates: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_scan_candidates",
			Help:      "Camera candidates found by the most recent scan",
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) DevicesSeen(n int) {
	if m == nil {
		return
	}
	m.devicesSeen.Add(float64(n))
}

func (m *Metrics) Candidate(category string) {
	if m == nil {
		return
	}
	if category == "" {
		category = "none"
	}
	m.candidates.WithLabelValues(category).Inc()
}

func (m *Metrics) NearMiss() {
	if m == nil {
		return
	}
	m.nearMisses.Inc()
}

func (m *Metrics) Lookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) Probe(open bool) {
	if m == nil {
		return
	}
	result := ResultClosed
	if open {
		result = ResultOpen
	}
	m.probes.WithLabelValues(result).Inc()
}

// ScanFinished records the outcome of one scan.
func (m *Metrics) ScanFinished(status string, took time.Duration, candidates int) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(status).Inc()
	m.scanDuration.Observe(took.Seconds())
	m.lastCandidates.Set(float64(candidates))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "metrics").Str("addr", addr).Msg("Serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
