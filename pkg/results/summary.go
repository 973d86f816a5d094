// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package results

import (
	"slices"

	"github.com/kismetcam/kismetcam/pkg/classify"
)

// TopChannels is the number of channels a summary lists.
const TopChannels = 10

// Count is one row of a summary table.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// ManufacturerStat summarizes the candidates of one manufacturer.
type ManufacturerStat struct {
	Name          string  `json:"name" yaml:"name"`
	Category      string  `json:"category" yaml:"category"`
	Count         int     `json:"count" yaml:"count"`
	AvgConfidence float64 `json:"avg_confidence" yaml:"avg_confidence"`
}

// Summary holds candidate counts by manufacturer, category, band,
// frequency and channel. Every list is ordered by descending count; equal
// counts keep the order in which their keys were first seen.
type Summary struct {
	Total         int                `json:"total" yaml:"total"`
	Manufacturers []ManufacturerStat `json:"manufacturers" yaml:"manufacturers"`
	Categories    []Count            `json:"categories" yaml:"categories"`
	Frequencies   []Count            `json:"frequencies" yaml:"frequencies"`
	Bands         []Count            `json:"bands" yaml:"bands"`
	Channels      []Count            `json:"channels" yaml:"channels"`
}

// counter tallies keys while remembering first-seen order.
type counter struct {
	index  map[string]int
	counts []Count
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string) {
	if key == "" {
		return
	}
	if i, ok := c.index[key]; ok {
		c.counts[i].Count++
		return
	}
	c.index[key] = len(c.counts)
	c.counts = append(c.counts, Count{Key: key, Count: 1})
}

func (c *counter) sorted() []Count {
	out := slices.Clone(c.counts)
	slices.SortStableFunc(out, func(a, b Count) int { return b.Count - a.Count })
	return out
}

// Summarize tallies candidates. Candidates without a manufacturer or
// frequency are left out of the corresponding tables.
func Summarize(candidates []classify.CameraCandidate) Summary {
	s := Summary{Total: len(candidates)}

	categories := newCounter()
	frequencies := newCounter()
	bands := newCounter()
	channels := newCounter()

	mfrIndex := make(map[string]int)
	var confSums []float64

	for _, c := range candidates {
		if m := c.Device.Manufacturer; m != nil {
			i, ok := mfrIndex[m.Name]
			if !ok {
				i = len(s.Manufacturers)
				mfrIndex[m.Name] = i
				s.Manufacturers = append(s.Manufacturers, ManufacturerStat{Name: m.Name, Category: m.Category})
				confSums = append(confSums, 0)
			}
			s.Manufacturers[i].Count++
			confSums[i] += c.Confidence
			categories.add(m.Category)
		}
		if f := c.Device.Frequency; f != nil {
			frequencies.add(f.Display())
			bands.add(f.Band)
			channels.add(f.Channel)
		}
	}

	for i := range s.Manufacturers {
		s.Manufacturers[i].AvgConfidence = confSums[i] / float64(s.Manufacturers[i].Count)
	}
	slices.SortStableFunc(s.Manufacturers, func(a, b ManufacturerStat) int { return b.Count - a.Count })

	s.Categories = categories.sorted()
	s.Frequencies = frequencies.sorted()
	s.Bands = bands.sorted()
	s.Channels = channels.sorted()
	if len(s.Channels) > TopChannels {
		s.Channels = s.Channels[:TopChannels]
	}
	return s
}
