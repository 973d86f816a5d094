// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package results filters, groups and summarizes classified candidates.
// Every operation returns new slices and leaves its input untouched.
package results

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/kismetcam/kismetcam/pkg/classify"
)

// DefaultFrequencyTolerance is the exact-frequency match tolerance, in GHz.
const DefaultFrequencyTolerance = 0.001

func keep(candidates []classify.CameraCandidate, pred func(classify.CameraCandidate) bool) []classify.CameraCandidate {
	out := make([]classify.CameraCandidate, 0, len(candidates))
	for _, c := range candidates {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByManufacturer keeps candidates whose manufacturer name or one of
// its aliases contains name, ignoring case.
func FilterByManufacturer(candidates []classify.CameraCandidate, name string) []classify.CameraCandidate {
	needle := strings.ToLower(name)
	return keep(candidates, func(c classify.CameraCandidate) bool {
		m := c.Device.Manufacturer
		if m == nil {
			return false
		}
		if strings.Contains(strings.ToLower(m.Name), needle) {
			return true
		}
		for _, alias := range m.Aliases {
			if strings.Contains(strings.ToLower(alias), needle) {
				return true
			}
		}
		return false
	})
}

// FilterByCategory keeps candidates whose manufacturer has the category.
func FilterByCategory(candidates []classify.CameraCandidate, category string) []classify.CameraCandidate {
	return keep(candidates, func(c classify.CameraCandidate) bool {
		return c.Device.Manufacturer != nil && c.Device.Manufacturer.Category == category
	})
}

// FilterByExactFrequency keeps candidates within tolerance GHz of ghz.
func FilterByExactFrequency(candidates []classify.CameraCandidate, ghz, tolerance float64) []classify.CameraCandidate {
	return keep(candidates, func(c classify.CameraCandidate) bool {
		f := c.Device.Frequency
		return f != nil && f.GHz != 0 && math.Abs(f.GHz-ghz) <= tolerance
	})
}

// ParseFrequencyRange parses "a-b" (GHz), splitting on the first '-'.
func ParseFrequencyRange(s string) (lo, hi float64, ok bool) {
	start, end, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	lo, err := cast.ToFloat64E(strings.TrimSpace(start))
	if err != nil || strings.TrimSpace(start) == "" {
		return 0, 0, false
	}
	hi, err = cast.ToFloat64E(strings.TrimSpace(end))
	if err != nil || strings.TrimSpace(end) == "" {
		return 0, 0, false
	}
	return lo, hi, true
}

// FilterByFrequencyRange keeps candidates inside the inclusive GHz range
// "a-b". A malformed range keeps nothing.
func FilterByFrequencyRange(candidates []classify.CameraCandidate, rng string) []classify.CameraCandidate {
	lo, hi, ok := ParseFrequencyRange(rng)
	if !ok {
		return []classify.CameraCandidate{}
	}
	return keep(candidates, func(c classify.CameraCandidate) bool {
		f := c.Device.Frequency
		return f != nil && f.GHz != 0 && f.GHz >= lo && f.GHz <= hi
	})
}

// FilterByFrequencyBand keeps candidates on the band.
func FilterByFrequencyBand(candidates []classify.CameraCandidate, band string) []classify.CameraCandidate {
	return keep(candidates, func(c classify.CameraCandidate) bool {
		return c.Device.Frequency != nil && c.Device.Frequency.Band == band
	})
}

// FilterByChannel keeps candidates on the channel.
func FilterByChannel(candidates []classify.CameraCandidate, channel string) []classify.CameraCandidate {
	return keep(candidates, func(c classify.CameraCandidate) bool {
		return c.Device.Frequency != nil && c.Device.Frequency.Channel == channel
	})
}

// FilterByMinConfidence keeps candidates scoring at least min.
func FilterByMinConfidence(candidates []classify.CameraCandidate, min float64) []classify.CameraCandidate {
	return keep(candidates, func(c classify.CameraCandidate) bool {
		return c.Confidence >= min
	})
}

// Filter bundles the filters a scan can apply. Zero fields are skipped.
type Filter struct {
	Manufacturer   string   `json:"manufacturer,omitempty"`
	Category       string   `json:"category,omitempty"`
	ExactFrequency *float64 `json:"exact_frequency,omitempty"`
	FrequencyRange string   `json:"frequency_range,omitempty"`
	Band           string   `json:"band,omitempty"`
	Channel        string   `json:"channel,omitempty"`
	MinConfidence  float64  `json:"min_confidence,omitempty"`
}

// FilterStep records the effect of one applied filter.
type FilterStep struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// String renders the step the way the scan report prints it.
func (s FilterStep) String() string {
	return fmt.Sprintf("Filtered by %s '%s': %d devices (from %d)", s.Name, s.Value, s.After, s.Before)
}

// IsZero reports whether no filter is set.
func (f Filter) IsZero() bool {
	return f.Manufacturer == "" && f.Category == "" && f.ExactFrequency == nil &&
		f.FrequencyRange == "" && f.Band == "" && f.Channel == "" && f.MinConfidence == 0
}

// Apply runs the configured filters in a fixed order and reports what each
// one removed.
func (f Filter) Apply(candidates []classify.CameraCandidate) ([]classify.CameraCandidate, []FilterStep) {
	var steps []FilterStep
	out := candidates

	step := func(name, value string, fn func([]classify.CameraCandidate) []classify.CameraCandidate) {
		before := len(out)
		out = fn(out)
		steps = append(steps, FilterStep{Name: name, Value: value, Before: before, After: len(out)})
	}

	if f.Manufacturer != "" {
		step("manufacturer", f.Manufacturer, func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByManufacturer(in, f.Manufacturer)
		})
	}
	if f.Category != "" {
		step("category", f.Category, func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByCategory(in, f.Category)
		})
	}
	if f.ExactFrequency != nil {
		ghz := *f.ExactFrequency
		step("exact frequency", fmt.Sprintf("%.3f GHz", ghz), func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByExactFrequency(in, ghz, DefaultFrequencyTolerance)
		})
	}
	if f.FrequencyRange != "" {
		step("frequency range", f.FrequencyRange+" GHz", func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByFrequencyRange(in, f.FrequencyRange)
		})
	}
	if f.Band != "" {
		step("frequency band", f.Band, func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByFrequencyBand(in, f.Band)
		})
	}
	if f.Channel != "" {
		step("channel", f.Channel, func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByChannel(in, f.Channel)
		})
	}
	if f.MinConfidence > 0 {
		step("minimum confidence", fmt.Sprintf("%.0f%%", f.MinConfidence*100), func(in []classify.CameraCandidate) []classify.CameraCandidate {
			return FilterByMinConfidence(in, f.MinConfidence)
		})
	}
	return out, steps
}
