// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package probe checks whether camera service ports accept TCP connections.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kismetcam/kismetcam/pkg/metrics"
)

// DefaultTimeout bounds a single connection attempt.
const DefaultTimeout = time.Second

// TCPProber dials ports with a per-attempt timeout.
type TCPProber struct {
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// New returns a TCPProber. A non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration, m *metrics.Metrics) *TCPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPProber{Timeout: timeout, Metrics: m}
}

// Probe reports whether addr:port accepted a connection. Resolution and
// connection failures are reported as closed.
func (p *TCPProber) Probe(ctx context.Context, addr string, port int) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	target := net.JoinHostPort(addr, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		log.Trace().Err(err).Str("target", target).Msg("Port closed")
		p.Metrics.Probe(false)
		return false
	}
	_ = conn.Close()

	log.Debug().Str("target", target).Msg("Camera port open")
	p.Metrics.Probe(true)
	return true
}
