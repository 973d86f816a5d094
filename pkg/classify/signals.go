// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package classify

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/kismetcam/kismetcam/pkg/device"
	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

var categoryBoost = map[string]float64{
	manufacturer.CategoryCamera:     0.3,
	manufacturer.CategoryIoT:        0.1,
	manufacturer.CategoryNetworking: -0.2,
	manufacturer.CategoryComputing:  -0.3,
	manufacturer.CategoryUnknown:    0,
}

var sourceBoost = map[string]float64{
	manufacturer.SourceHardcoded: 0.1,
	manufacturer.SourceMACAPI:    0.05,
	manufacturer.SourceKismet:    0,
	manufacturer.SourceInferred:  -0.05,
}

// knownCameraBoost is added on top of the category boost for camera makers.
const knownCameraBoost = 0.2

// Exact-frequency bonuses, in MHz.
var frequencyBonus = map[float64]float64{
	2437: 0.15,
	5180: 0.15,
	5745: 0.10,
	2412: 0.08,
	2462: 0.08,
	5220: 0.08,
	5825: 0.08,
}

var commonCameraMHz = []float64{2412, 2437, 2462, 5180, 5220, 5745, 5825}

// commonCameraTolerance is how far, in MHz, a frequency may sit from a
// common camera channel and still be reported as one.
const commonCameraTolerance = 2

// NameKeywords are matched against lowercased device names in order.
var NameKeywords = []string{
	"camera", "cam", "ipcam", "ip-camera", "webcam", "cctv",
	"surveillance", "security", "dlink", "dcs-", "foscam",
	"hikvision", "axis", "reolink", "wyze", "arlo", "nest",
	"ring", "blink", "swann", "lorex", "amcrest", "tenvis",
}

// Substrings matched against the raw vendor string reported by Kismet.
var (
	vendorCameraBrands = []string{
		"axis", "canon", "sony", "panasonic", "foscam", "hikvision", "dahua",
		"d-link", "tp-link", "netgear", "linksys", "asus", "tenda",
		"tplink", "uniview", "avtech", "zmodo", "swann",
		"lorex", "qsee", "night owl", "amcrest", "reolink",
	}
	vendorIoTBrands     = []string{"xiaomi", "wyze", "arlo", "blink", "ring", "nest", "google", "amazon"}
	vendorNetworkBrands = []string{"cisco", "juniper", "aruba", "ruckus", "fortinet", "ubiquiti"}
)

// Packet thresholds.
const (
	lowPacketCount  = 200
	highPacketCount = 5000
	beaconMinTotal  = 1000
	beaconTXRatio   = 0.9
	beaconDataRatio = 0.05
	streamDataRatio = 0.3
)

// score is the running state of one device's evaluation. Steps return a new
// value rather than mutating the previous one.
type score struct {
	confidence float64
	reasons    []string
}

func (s score) with(delta float64, reason string) score {
	s.confidence += delta
	if reason != "" {
		s.reasons = append(slices.Clip(s.reasons), reason)
	}
	return s
}

func (s score) clamp() score {
	s.confidence = math.Max(0, math.Min(1, s.confidence))
	return s
}

// Score evaluates a device against every local signal and returns its
// clamped confidence and the reasons behind it, in contribution order.
func Score(d *device.Device, pc device.PacketCounters) (float64, []string) {
	s := score{}
	s = manufacturerSignal(s, d.Manufacturer)
	s = frequencySignal(s, d.Frequency)
	s = nameSignal(s, d.Name)
	s = typeSignal(s, d.Type)
	s = volumeSignal(s, pc)
	s = trafficSignal(s, pc)
	s = vendorSignal(s, d.Vendor)
	if len(d.IPAddresses) > 1 {
		s = s.with(0.1, "Multiple IP addresses")
	}
	s = s.clamp()
	return s.confidence, s.reasons
}

// ManufacturerContribution is the confidence a manufacturer identity adds on
// its own. A nil manufacturer contributes nothing.
func ManufacturerContribution(m *manufacturer.Info) float64 {
	if m == nil {
		return 0
	}
	c := categoryBoost[m.Category]
	if m.IsKnownCamera {
		c += knownCameraBoost
	}
	return c + sourceBoost[m.Source]
}

func manufacturerSignal(s score, m *manufacturer.Info) score {
	if m == nil {
		return s.with(0, "No manufacturer information available")
	}

	c := ManufacturerContribution(m)
	switch {
	case c > 0.1:
		s = s.with(c, fmt.Sprintf("Camera manufacturer: %s (%s)", m.Name, m.Category))
	case c < -0.1:
		s = s.with(c, fmt.Sprintf("Non-camera manufacturer: %s (%s)", m.Name, m.Category))
	default:
		s = s.with(c, "")
	}
	if c > 0.2 && m.Source != manufacturer.SourceInferred {
		s = s.with(0, "Manufacturer source: "+m.Source)
	}
	return s
}

// FrequencyBonus is the confidence a frequency adds: a fixed bonus for
// channels cameras favour, otherwise a small band preference.
func FrequencyBonus(f *frequency.Info) float64 {
	if f == nil || f.MHz == 0 {
		return 0
	}
	if bonus, ok := frequencyBonus[f.MHz]; ok {
		return bonus
	}
	switch f.Band {
	case frequency.Band24GHz:
		return 0.05
	case frequency.Band5GHz:
		return 0.03
	}
	return 0
}

// IsCommonCameraFrequency reports whether f lies within 2 MHz of a channel
// commonly used by cameras.
func IsCommonCameraFrequency(f *frequency.Info) bool {
	if f == nil || f.MHz == 0 {
		return false
	}
	for _, mhz := range commonCameraMHz {
		if math.Abs(f.MHz-mhz) <= commonCameraTolerance {
			return true
		}
	}
	return false
}

func frequencySignal(s score, f *frequency.Info) score {
	if f == nil {
		return s.with(0, "No frequency information available")
	}

	bonus := FrequencyBonus(f)
	if bonus > 0.05 {
		s = s.with(bonus, fmt.Sprintf("Camera frequency: %s (Channel %s)", f.Display(), f.Channel))
	} else {
		s = s.with(bonus, "")
	}
	if IsCommonCameraFrequency(f) {
		s = s.with(0, "Common camera frequency band: "+f.Band)
	}
	return s
}

// MatchNameKeyword returns the first camera keyword contained in name.
func MatchNameKeyword(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	for _, kw := range NameKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

func nameSignal(s score, name string) score {
	if kw, ok := MatchNameKeyword(name); ok {
		return s.with(0.3, "Device name contains: "+kw)
	}
	return s
}

func typeSignal(s score, typ string) score {
	switch strings.ToLower(typ) {
	case "wi-fi ap":
		return s.with(-0.5, "Access Point (unlikely to be camera)")
	case "wi-fi client", "wi-fi bridged":
		return s.with(0.1, "Wireless client (could be camera)")
	case "wireless", "wifi", "802.11":
		return s.with(0.05, "")
	}
	return s
}

func volumeSignal(s score, pc device.PacketCounters) score {
	switch {
	case pc.Total < lowPacketCount:
		return s.with(0.2, "Low packet count (typical of cameras)")
	case pc.Total > highPacketCount:
		return s.with(-0.3, "High packet count (typical of APs)")
	}
	return s
}

func trafficSignal(s score, pc device.PacketCounters) score {
	tx, data := pc.TXRatio(), pc.DataRatio()
	switch {
	case pc.Total > beaconMinTotal && tx > beaconTXRatio && data < beaconDataRatio:
		return s.with(-0.4, "AP beacon traffic pattern (high TX, low data)")
	case data > streamDataRatio:
		return s.with(0.2, "High data ratio (possible video streaming)")
	}
	return s
}

// vendorSignal runs three independent passes over the raw vendor string.
func vendorSignal(s score, vendor string) score {
	if vendor == "" {
		return s
	}
	lower := strings.ToLower(vendor)
	if containsAny(lower, vendorCameraBrands) {
		s = s.with(0.3, "Camera manufacturer: "+vendor)
	}
	if containsAny(lower, vendorIoTBrands) {
		s = s.with(0.2, "IoT/Smart manufacturer: "+vendor)
	}
	if containsAny(lower, vendorNetworkBrands) {
		s = s.with(-0.2, "Network equipment manufacturer: "+vendor)
	}
	return s
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
