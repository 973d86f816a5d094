// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package results

import (
	"cmp"
	"slices"

	"github.com/kismetcam/kismetcam/pkg/classify"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

// Groups maps a key to the candidates sharing it. Each group keeps the
// relative order of the input.
type Groups struct {
	members map[string][]classify.CameraCandidate
	seen    []string
	less    func(a, b string) int
}

func newGroups(less func(a, b string) int) *Groups {
	return &Groups{members: make(map[string][]classify.CameraCandidate), less: less}
}

func (g *Groups) add(key string, c classify.CameraCandidate) {
	if _, ok := g.members[key]; !ok {
		g.seen = append(g.seen, key)
	}
	g.members[key] = append(g.members[key], c)
}

// Keys returns the group keys in display order.
func (g *Groups) Keys() []string {
	keys := slices.Clone(g.seen)
	slices.SortStableFunc(keys, g.less)
	return keys
}

// Get returns the candidates of one group.
func (g *Groups) Get(key string) []classify.CameraCandidate {
	return g.members[key]
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.seen)
}

// GroupByManufacturer groups candidates by manufacturer name. Candidates
// without a manufacturer share the "Unknown" group. Keys sort by name.
func GroupByManufacturer(candidates []classify.CameraCandidate) *Groups {
	g := newGroups(cmp.Compare[string])
	for _, c := range candidates {
		key := manufacturer.UnknownName
		if c.Device.Manufacturer != nil {
			key = c.Device.Manufacturer.Name
		}
		g.add(key, c)
	}
	return g
}

// GroupByFrequency groups candidates by displayed frequency. Candidates
// without frequency information are left out. Keys sort numerically.
func GroupByFrequency(candidates []classify.CameraCandidate) *Groups {
	ghz := make(map[string]float64)
	g := newGroups(func(a, b string) int { return cmp.Compare(ghz[a], ghz[b]) })
	for _, c := range candidates {
		f := c.Device.Frequency
		if f == nil {
			continue
		}
		key := f.Display()
		ghz[key] = f.GHz
		g.add(key, c)
	}
	return g
}

