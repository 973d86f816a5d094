// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package report renders scan results for people and exports them for
// other tools. It never changes scores.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kismetcam/kismetcam/pkg/classify"
	"github.com/kismetcam/kismetcam/pkg/device"
	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/results"
)

const (
	bannerWidth    = 60
	separatorWidth = 50
	maxAliases     = 2
	maxIndicators  = 2
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	groupStyle  = lipgloss.NewStyle().Bold(true)

	highConfidence = color.New(color.FgGreen, color.Bold)
	midConfidence  = color.New(color.FgYellow)
	lowConfidence  = color.New(color.FgWhite)

	titleCaser = cases.Title(language.English)
)

// Presenter writes the text report.
type Presenter struct {
	w       io.Writer
	colored bool
}

// NewPresenter returns a Presenter writing to w. With colored unset the
// output is plain text.
func NewPresenter(w io.Writer, colored bool) *Presenter {
	return &Presenter{w: w, colored: colored}
}

func (p *Presenter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Presenter) banner(title string) {
	rule := strings.Repeat("=", bannerWidth)
	if p.colored {
		rule = bannerStyle.Render(rule)
		title = bannerStyle.Render(title)
	}
	p.printf("\n%s\n%s\n%s\n", rule, title, rule)
}

func (p *Presenter) groupHeader(header string) {
	if p.colored {
		header = groupStyle.Render(header)
	}
	p.printf("%s\n%s\n", header, strings.Repeat("-", separatorWidth))
}

func (p *Presenter) confidence(c float64) string {
	s := formatPercent(c)
	if !p.colored {
		return s
	}
	var cl *color.Color
	switch {
	case c >= 0.7:
		cl = highConfidence
	case c >= 0.5:
		cl = midConfidence
	default:
		cl = lowConfidence
	}
	cl.EnableColor()
	return cl.Sprint(s)
}

// FilterSteps prints one line per applied filter.
func (p *Presenter) FilterSteps(steps []results.FilterStep) {
	for _, s := range steps {
		p.printf("%s\n", s)
	}
}

// Results prints every candidate with all of its details.
func (p *Presenter) Results(candidates []classify.CameraCandidate) {
	p.banner("CAMERA DEVICE DETECTION RESULTS")
	p.printf("Found %d potential camera devices:\n\n", len(candidates))

	for i, c := range candidates {
		d := c.Device
		p.printf("%d. %s\n", i+1, deviceName(d))
		p.printf("   Confidence: %s\n", p.confidence(c.Confidence))

		if m := d.Manufacturer; m != nil {
			p.printf("   Manufacturer: %s %s\n", m.Name, CategorySymbol(m.Category))
			p.printf("   Category: %s (Source: %s)\n", titleCaser.String(m.Category), m.Source)
			if len(m.Aliases) > 0 {
				p.printf("   Also known as: %s\n", strings.Join(m.Aliases[:min(len(m.Aliases), maxAliases)], ", "))
			}
		} else {
			p.printf("   Manufacturer: Unknown\n")
		}

		if f := d.Frequency; f != nil {
			p.printf("   Frequency: %s %s (Band: %s)\n", f.Display(), BandSymbol(f.Band), f.Band)
			p.printf("   Channel: %s\n", orNA(f.Channel))
			if f.ChannelWidth != "" {
				p.printf("   Channel Width: %s\n", f.ChannelWidth)
			}
		} else {
			p.printf("   Frequency: Unknown\n")
			p.printf("   Channel: %s\n", orNA(d.Channel))
		}

		p.printf("   MAC: %s\n", d.MAC)
		p.printf("   Type: %s\n", d.Type)
		if d.Signal != nil && *d.Signal != 0 {
			p.printf("   Signal: %d dBm\n", *d.Signal)
		} else {
			p.printf("   Signal: N/A\n")
		}
		p.addresses("   ", d, c.OpenPorts)

		p.printf("   Detection Reasons:\n")
		for _, r := range c.Reasons {
			p.printf("     • %s\n", r)
		}
		p.printf("\n")
	}
}

// GroupedByManufacturer prints candidates under their manufacturer.
func (p *Presenter) GroupedByManufacturer(candidates []classify.CameraCandidate) {
	groups := results.GroupByManufacturer(candidates)

	p.banner("CAMERA DEVICES GROUPED BY MANUFACTURER")
	p.printf("Found %d potential camera devices from %d manufacturers:\n\n", len(candidates), groups.Len())

	for _, name := range groups.Keys() {
		members := groups.Get(name)
		symbol, category := unknownSymbol, "Unknown"
		if m := members[0].Device.Manufacturer; m != nil {
			symbol, category = CategorySymbol(m.Category), titleCaser.String(m.Category)
		}
		p.groupHeader(fmt.Sprintf("📁 %s %s (%s) - %d device(s)", name, symbol, category, len(members)))

		for i, c := range members {
			p.memberLines(i, c)
			p.addresses("     ", c.Device, c.OpenPorts)
			p.indicators(c.Reasons, "camera", "manufacturer", "vendor")
		}
		p.printf("\n")
	}
}

// GroupedByFrequency prints candidates under their precise frequency.
func (p *Presenter) GroupedByFrequency(candidates []classify.CameraCandidate) {
	groups := results.GroupByFrequency(candidates)

	p.banner("CAMERA DEVICES GROUPED BY PRECISE FREQUENCY")
	p.printf("Found %d potential camera devices across %d frequencies:\n\n", len(candidates), groups.Len())

	for _, key := range groups.Keys() {
		members := groups.Get(key)
		f := members[0].Device.Frequency
		channel := f.Channel
		if channel == "" {
			channel = "Unknown"
		}
		p.groupHeader(fmt.Sprintf("📡 %s %s (Band: %s, Channel: %s) - %d device(s)",
			key, BandSymbol(f.Band), f.Band, channel, len(members)))

		for i, c := range members {
			p.memberLines(i, c)
			if m := c.Device.Manufacturer; m != nil {
				p.printf("     Manufacturer: %s %s\n", m.Name, CategorySymbol(m.Category))
			}
			p.addresses("     ", c.Device, c.OpenPorts)
			p.indicators(c.Reasons, "camera", "manufacturer", "frequency")
		}
		p.printf("\n")
	}
}

func (p *Presenter) memberLines(i int, c classify.CameraCandidate) {
	p.printf("  %d. %s\n", i+1, deviceName(c.Device))
	p.printf("     Confidence: %s\n", p.confidence(c.Confidence))
	p.printf("     MAC: %s\n", c.Device.MAC)
	p.printf("     Type: %s\n", c.Device.Type)
}

func (p *Presenter) addresses(indent string, d *device.Device, ports []int) {
	if len(d.IPAddresses) > 0 {
		p.printf("%sIPs: %s\n", indent, strings.Join(d.IPAddresses, ", "))
	}
	if len(ports) > 0 {
		p.printf("%sOpen Ports: %s\n", indent, joinPorts(ports))
	}
}

// indicators prints the first reasons mentioning any of the keywords.
func (p *Presenter) indicators(reasons []string, keywords ...string) {
	var key []string
	for _, r := range reasons {
		lower := strings.ToLower(r)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				key = append(key, r)
				break
			}
		}
	}
	if len(key) == 0 {
		return
	}
	p.printf("     Key Indicators:\n")
	for _, r := range key[:min(len(key), maxIndicators)] {
		p.printf("       • %s\n", r)
	}
}

// ManufacturerSummary prints manufacturer and category counts. Nothing is
// printed for an empty scan.
func (p *Presenter) ManufacturerSummary(s results.Summary) {
	if s.Total == 0 {
		return
	}
	p.banner("MANUFACTURER SUMMARY")

	if len(s.Manufacturers) > 0 {
		p.printf("Top Manufacturers:\n")
		for _, m := range s.Manufacturers {
			p.printf("  • %s: %d device(s)\n", m.Name, m.Count)
		}
	}
	if len(s.Categories) > 0 {
		p.printf("\nDevice Categories:\n")
		for _, c := range s.Categories {
			p.printf("  %s %s: %d device(s)\n", CategorySymbol(c.Key), titleCaser.String(c.Key), c.Count)
		}
	}
	p.printf("\n")
}

// FrequencySummary prints frequency, band and channel counts.
func (p *Presenter) FrequencySummary(s results.Summary) {
	if s.Total == 0 {
		return
	}
	p.banner("PRECISE FREQUENCY SUMMARY")

	if len(s.Frequencies) > 0 {
		p.printf("Top Precise Frequencies:\n")
		for _, c := range s.Frequencies {
			p.printf("  %s %s: %d device(s)\n", BandSymbol(frequency.BandOfDisplay(c.Key)), c.Key, c.Count)
		}
	}
	if len(s.Bands) > 0 {
		p.printf("\nFrequency Bands:\n")
		for _, c := range s.Bands {
			p.printf("  %s %s: %d device(s)\n", BandSymbol(c.Key), c.Key, c.Count)
		}
	}
	if len(s.Channels) > 0 {
		p.printf("\nTop Channels:\n")
		for _, c := range s.Channels {
			p.printf("  📺 Channel %s: %d device(s)\n", c.Key, c.Count)
		}
	}
	p.printf("\n")
}

func deviceName(d *device.Device) string {
	if d.Name == "" {
		return "Unknown Device"
	}
	return d.Name
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatPercent(c float64) string {
	return strconv.FormatFloat(c*100, 'f', 1, 64) + "%"
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, port := range ports {
		parts[i] = strconv.Itoa(port)
	}
	return strings.Join(parts, ", ")
}
