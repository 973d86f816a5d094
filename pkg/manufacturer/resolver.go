// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package manufacturer resolves hardware addresses and vendor strings into
// normalized manufacturer identities.
package manufacturer

import (
	"context"
	"strings"
)

// Provenance of a manufacturer identification.
const (
	SourceHardcoded = "hardcoded"
	SourceKismet    = "kismet"
	SourceMACAPI    = "mac_api"
	SourceInferred  = "inferred"
)

// Manufacturer categories.
const (
	CategoryCamera     = "camera"
	CategoryNetworking = "networking"
	CategoryComputing  = "computing"
	CategoryIoT        = "iot"
	CategoryUnknown    = "unknown"
)

// Fixed trust scores for identifications that do not come from the catalog.
const (
	KismetConfidence = 0.6
	MACAPIConfidence = 0.8
)

// UnknownName is the normalized form of an empty manufacturer name.
const UnknownName = "Unknown"

// Info is a normalized manufacturer identity. It is immutable once built.
type Info struct {
	Name          string   `json:"name" yaml:"name"`
	Category      string   `json:"category" yaml:"category"`
	Confidence    float64  `json:"confidence" yaml:"confidence"`
	Source        string   `json:"source" yaml:"source"`
	IsKnownCamera bool     `json:"is_known_camera" yaml:"is_known_camera"`
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	RawName       string   `json:"raw_name,omitempty" yaml:"raw_name,omitempty"`
}

// LookupFunc asks an external service for the vendor of a hardware address.
type LookupFunc func(ctx context.Context, mac string) (string, bool)

// categoryTerms are checked in order when a name is not in the catalog.
var categoryTerms = []struct {
	category string
	terms    []string
}{
	{CategoryCamera, []string{"axis", "hikvision", "dahua", "foscam", "reolink", "amcrest", "swann", "lorex"}},
	{CategoryNetworking, []string{"cisco", "juniper", "aruba", "ruckus", "fortinet", "ubiquiti", "tp-link", "netgear", "linksys"}},
	{CategoryComputing, []string{"apple", "microsoft", "intel", "amd", "dell", "hp"}},
	{CategoryIoT, []string{"google", "amazon", "samsung", "xiaomi", "wyze", "arlo", "ring", "nest"}},
}

var cameraBrands = map[string]struct{}{
	"axis communications":          {},
	"canon":                        {},
	"sony":                         {},
	"panasonic":                    {},
	"hikvision digital technology": {},
	"dahua technology":             {},
	"amcrest technologies":         {},
	"foscam":                       {},
	"reolink":                      {},
	"swann communications":         {},
	"lorex technology":             {},
	"wyze labs":                    {},
	"ring":                         {},
	"arlo technologies":            {},
	"nest labs":                    {},
}

// Resolver identifies manufacturers against a Catalog.
type Resolver struct {
	catalog *Catalog
}

// NewResolver returns a Resolver over catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Identify resolves a manufacturer without leaving the process: the catalog
// prefix first, then the vendor string reported by the inventory. It returns
// nil when neither is usable.
func (r *Resolver) Identify(mac, inventoryVendor string) *Info {
	if mac == "" {
		return nil
	}

	normalized := NormalizeMAC(mac)
	if len(normalized) >= 8 {
		if entry, ok := r.catalog.Lookup(normalized[:8]); ok {
			return r.Build(entry.Name, SourceHardcoded, entry.Confidence, "")
		}
	}

	if UsableVendor(inventoryVendor) {
		return r.Build(inventoryVendor, SourceKismet, KismetConfidence, "")
	}
	return nil
}

// Resolve is Identify followed, when lookup is non-nil, by an external
// vendor lookup.
func (r *Resolver) Resolve(ctx context.Context, mac, inventoryVendor string, lookup LookupFunc) *Info {
	if info := r.Identify(mac, inventoryVendor); info != nil {
		return info
	}
	if mac == "" || lookup == nil {
		return nil
	}

	vendor, ok := lookup(ctx, NormalizeMAC(mac))
	if !ok || !UsableVendor(vendor) {
		return nil
	}
	return r.Build(vendor, SourceMACAPI, MACAPIConfidence, "")
}

// UsableVendor reports whether a reported vendor string names anything.
func UsableVendor(vendor string) bool {
	return vendor != "" && !strings.EqualFold(vendor, "unknown")
}

// Build creates an Info from a raw manufacturer name.
func (r *Resolver) Build(name, source string, confidence float64, rawName string) *Info {
	normalized := r.Normalize(name)
	category := r.Category(normalized)
	if rawName == "" {
		rawName = name
	}

	return &Info{
		Name:          normalized,
		Category:      category,
		Confidence:    confidence,
		Source:        source,
		IsKnownCamera: category == CategoryCamera || IsCameraBrand(normalized),
		Aliases:       r.catalog.AliasesOf(normalized),
		RawName:       rawName,
	}
}

// Normalize maps a manufacturer name to its canonical form: exact
// (case-insensitive) match on a canonical name or alias, then the first
// canonical name with an alias contained in name, else the trimmed input.
func (r *Resolver) Normalize(name string) string {
	if name == "" {
		return UnknownName
	}

	lower := strings.ToLower(name)
	for _, set := range r.catalog.aliases {
		if lower == strings.ToLower(set.Name) {
			return set.Name
		}
		for _, alias := range set.Aliases {
			if lower == strings.ToLower(alias) {
				return set.Name
			}
		}
	}

	for _, set := range r.catalog.aliases {
		for _, alias := range set.Aliases {
			if strings.Contains(lower, strings.ToLower(alias)) {
				return set.Name
			}
		}
	}

	return strings.TrimSpace(name)
}

// Category returns the catalog category of a normalized name, falling back
// to keyword inference.
func (r *Resolver) Category(normalized string) string {
	if category, ok := r.catalog.CategoryOf(normalized); ok {
		return category
	}

	lower := strings.ToLower(normalized)
	for _, group := range categoryTerms {
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				return group.category
			}
		}
	}
	return CategoryUnknown
}

// IsCameraBrand reports whether a normalized name is a known camera maker.
func IsCameraBrand(normalized string) bool {
	_, ok := cameraBrands[strings.ToLower(normalized)]
	return ok
}
