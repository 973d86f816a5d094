// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package report

import (
	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

const unknownSymbol = "❓"

var categorySymbols = map[string]string{
	manufacturer.CategoryCamera:     "📹",
	manufacturer.CategoryNetworking: "🌐",
	manufacturer.CategoryComputing:  "💻",
	manufacturer.CategoryIoT:        "🏠",
}

var bandSymbols = map[string]string{
	frequency.Band24GHz: "📡",
	frequency.Band5GHz:  "📶",
	frequency.Band6GHz:  "📡",
}

// CategorySymbol returns the marker printed next to a manufacturer category.
func CategorySymbol(category string) string {
	if s, ok := categorySymbols[category]; ok {
		return s
	}
	return unknownSymbol
}

// BandSymbol returns the marker printed next to a frequency band.
func BandSymbol(band string) string {
	if s, ok := bandSymbols[band]; ok {
		return s
	}
	return unknownSymbol
}
