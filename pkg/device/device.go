// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package device maps raw Kismet device records onto the canonical Device
// used by the classifier.
package device

import (
	"encoding/json"

	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

// Device is one observed device for the duration of a scan cycle.
type Device struct {
	Key          string             `json:"key" yaml:"key"`
	MAC          string             `json:"mac" yaml:"mac"`
	Name         string             `json:"name" yaml:"name"`
	Type         string             `json:"type" yaml:"type"`
	Vendor       string             `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Signal       *int               `json:"signal,omitempty" yaml:"signal,omitempty"`
	Channel      string             `json:"channel,omitempty" yaml:"channel,omitempty"`
	LastSeen     int64              `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`
	Manufacturer *manufacturer.Info `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Frequency    *frequency.Info    `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	IPAddresses  []string           `json:"ip_addresses,omitempty" yaml:"ip_addresses,omitempty"`
	TypeSet      []string           `json:"type_set,omitempty" yaml:"type_set,omitempty"`

	// Raw is the record the device was parsed from. The classifier reads the
	// packet counters from it.
	Raw json.RawMessage `json:"-" yaml:"-"`
}

// DisplayName returns the device name, or its address when unnamed.
func (d *Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.MAC
}

// Counters returns the packet counters embedded in the raw record.
func (d *Device) Counters() PacketCounters {
	return CountersFrom(d.Raw)
}

// PacketCounters are the per-device packet totals reported by Kismet.
type PacketCounters struct {
	Total int64 `json:"total"`
	RX    int64 `json:"rx"`
	TX    int64 `json:"tx"`
	Data  int64 `json:"data"`
	LLC   int64 `json:"llc"`
}

// TXRatio is TX/Total, or 0 without traffic.
func (p PacketCounters) TXRatio() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.TX) / float64(p.Total)
}

// DataRatio is Data/Total, or 0 without traffic.
func (p PacketCounters) DataRatio() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Data) / float64(p.Total)
}
