// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/kismetcam/kismetcam/pkg/classify"
)

// Export formats, chosen by file extension.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// ErrUnsupportedFormat is returned for export paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const lockRetryDelay = 100 * time.Millisecond

var csvHeader = []string{
	"Name", "MAC Address", "Type", "Confidence", "Manufacturer", "Category",
	"Frequency (GHz)", "Channel", "Band", "Signal (dBm)", "IP Addresses", "Reasons",
}

// Document is the exported form of one scan.
type Document struct {
	ScanID      string                     `json:"scan_id" yaml:"scan_id"`
	GeneratedAt time.Time                  `json:"generated_at" yaml:"generated_at"`
	Total       int                        `json:"total" yaml:"total"`
	Candidates  []classify.CameraCandidate `json:"candidates" yaml:"candidates"`
}

// FormatFor maps a file name to its export format.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Export writes doc to path in the format its extension names. Concurrent
// exporters of the same path are serialized through a sibling lock file,
// which is left in place after the export.
func Export(ctx context.Context, path string, doc Document) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(format, doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", path)
	}
	// The lock file stays on disk so every exporter locks the same inode.
	defer func() { _ = lock.Unlock() }()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	log.Info().
		Str("component", "report").
		Str("path", path).
		Str("format", format).
		Int("candidates", len(doc.Candidates)).
		Msg("Exported results")
	return nil
}

// Encode renders doc in format.
func Encode(format string, doc Document) ([]byte, error) {
	if doc.Candidates == nil {
		doc.Candidates = []classify.CameraCandidate{}
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatCSV:
		return encodeCSV(doc.Candidates)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func encodeCSV(candidates []classify.CameraCandidate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if err := w.Write(csvRow(c)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvRow(c classify.CameraCandidate) []string {
	d := c.Device
	row := []string{
		valueOr(d.Name, "Unknown"),
		d.MAC,
		d.Type,
		formatPercent(c.Confidence),
		"Unknown",
		"unknown",
		"Unknown",
		"Unknown",
		"Unknown",
		"Unknown",
		valueOr(strings.Join(d.IPAddresses, "; "), "None"),
		strings.Join(c.Reasons, "; "),
	}
	if m := d.Manufacturer; m != nil {
		row[4], row[5] = m.Name, m.Category
	}
	if f := d.Frequency; f != nil {
		row[6] = strconv.FormatFloat(f.GHz, 'f', 3, 64)
		row[7] = valueOr(f.Channel, "Unknown")
		row[8] = valueOr(f.Band, "Unknown")
	}
	if d.Signal != nil {
		row[9] = strconv.Itoa(*d.Signal)
	}
	return row
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
