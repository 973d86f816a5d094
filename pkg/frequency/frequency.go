// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package frequency turns the loosely typed frequency values reported by
// Kismet into canonical radio metadata (MHz, GHz, band, channel, width).
package frequency

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Band labels.
const (
	Band24GHz   = "2.4GHz"
	Band5GHz    = "5GHz"
	Band6GHz    = "6GHz"
	BandUnknown = "unknown"
)

// Channel width labels.
const (
	Width20MHz  = "20MHz"
	Width40MHz  = "40MHz"
	Width80MHz  = "80MHz"
	Width160MHz = "160MHz"
	WidthVHT    = "VHT"
)

// Info is the canonical frequency record of a device. It is never partially
// populated: Normalize either returns a complete value or nil.
type Info struct {
	RawFrequency   float64 `json:"raw_frequency" yaml:"raw_frequency"`
	MHz            float64 `json:"frequency_mhz" yaml:"frequency_mhz"`
	GHz            float64 `json:"frequency_ghz" yaml:"frequency_ghz"`
	Band           string  `json:"band" yaml:"band"`
	Channel        string  `json:"channel,omitempty" yaml:"channel,omitempty"`
	ChannelWidth   string  `json:"channel_width,omitempty" yaml:"channel_width,omitempty"`
	IsStandardWifi bool    `json:"is_standard_wifi" yaml:"is_standard_wifi"`
}

// Display returns the frequency in GHz with kHz precision, e.g. "2.437 GHz".
func (i *Info) Display() string {
	if i == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%.3f GHz", i.GHz)
}

// DisplayMHz returns the frequency rounded to whole MHz, e.g. "2437 MHz".
func (i *Info) DisplayMHz() string {
	if i == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%.0f MHz", i.MHz)
}

// Normalize builds an Info from a raw frequency value of unknown unit and an
// optional channel label. Numbers and numeric strings are accepted. Missing,
// zero or unparseable values yield nil.
func Normalize(raw any, channelLabel string) *Info {
	value, ok := toFloat(raw)
	if !ok {
		return nil
	}

	mhz := ToMHz(value)
	if mhz == 0 {
		return nil
	}

	channel := channelLabel
	if channel == "" {
		channel, _ = ChannelFor(mhz)
	}
	_, standard := ChannelFor(mhz)

	return &Info{
		RawFrequency:   value,
		MHz:            mhz,
		GHz:            mhz / 1000.0,
		Band:           BandFor(mhz),
		Channel:        channel,
		ChannelWidth:   Width(channel),
		IsStandardWifi: standard,
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil, bool:
		return 0, false
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false
		}
	}

	value, err := cast.ToFloat64E(raw)
	if err != nil {
		log.Warn().Err(err).Interface("frequency", raw).Msg("Error processing frequency")
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value == 0 {
		return 0, false
	}
	return value, true
}

// ToMHz converts a value to MHz by inferring its unit from its magnitude:
// below 1e3 it is GHz, below 1e6 MHz, below 1e7 kHz, otherwise Hz. The result
// is rounded to 1 kHz so that equivalent inputs agree exactly.
func ToMHz(value float64) float64 {
	var mhz float64
	switch {
	case value < 1000:
		mhz = value * 1000
	case value < 1_000_000:
		mhz = value
	case value < 10_000_000:
		mhz = value / 1000
	default:
		mhz = value / 1_000_000
	}
	return math.Round(mhz*1000) / 1000
}

// BandFor classifies a frequency in MHz using closed band boundaries.
func BandFor(mhz float64) string {
	switch {
	case mhz >= 2400 && mhz <= 2495:
		return Band24GHz
	case mhz >= 5150 && mhz <= 5850:
		return Band5GHz
	case mhz >= 5925 && mhz <= 7125:
		return Band6GHz
	default:
		return BandUnknown
	}
}

// ChannelFor returns the Wi-Fi channel whose center frequency is exactly mhz.
func ChannelFor(mhz float64) (string, bool) {
	if mhz != math.Trunc(mhz) {
		return "", false
	}
	ch, ok := channelByMHz[int(mhz)]
	return ch, ok
}

// Width derives the channel width from hints in a channel label such as
// "6HT40+" or "36VHT80". An empty label has no width.
func Width(channelLabel string) string {
	if channelLabel == "" {
		return ""
	}

	label := strings.ToLower(channelLabel)
	switch {
	case strings.Contains(label, "ht40") || strings.Contains(label, "40"):
		return Width40MHz
	case strings.Contains(label, "ht80") || strings.Contains(label, "80"):
		return Width80MHz
	case strings.Contains(label, "ht160") || strings.Contains(label, "160"):
		return Width160MHz
	case strings.Contains(label, "vht"):
		return WidthVHT
	default:
		return Width20MHz
	}
}

// BandOfDisplay recovers the band from a Display string ("2.437 GHz").
func BandOfDisplay(display string) string {
	fields := strings.Fields(display)
	if len(fields) == 0 {
		return BandUnknown
	}
	ghz, err := cast.ToFloat64E(fields[0])
	if err != nil {
		return BandUnknown
	}
	return BandFor(math.Round(ghz*1_000_000) / 1000)
}
