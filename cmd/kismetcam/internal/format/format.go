// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// OutputMode defines the output format for CLI commands
type OutputMode string

const (
	// ModeJSON outputs data as JSON
	ModeJSON OutputMode = "json"
	// ModeTable outputs data as ASCII table
	ModeTable OutputMode = "table"
)

// Formatter provides consistent output formatting across CLI commands
type Formatter interface {
	// PrintJSON outputs data as JSON to stdout
	PrintJSON(data any) error

	// PrintTable outputs data as ASCII table to stdout
	PrintTable(headers []string, rows [][]string) error

	// PrintSummary outputs a summary message to stdout (unless quiet mode)
	PrintSummary(message string) error

	// PrintError outputs an error to stderr (or JSON to stdout in JSON mode)
	PrintError(err error) error

	// PrintSuccessSummary prints a one-line confirmation of a completed operation
	PrintSuccessSummary(operation, detail string) error

	// PrintTotalFailureSummary prints a failed operation with suggestions
	PrintTotalFailureSummary(operation string, err error) error

	IsJSON() bool
	IsQuiet() bool
	Colored() bool

	// Out is the writer reports are rendered to.
	Out() io.Writer
}

type formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New creates a new Formatter
func New(stdout, stderr io.Writer, mode OutputMode, quiet, color bool) Formatter {
	return &formatter{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		quiet:  quiet,
		color:  color,
	}
}

func (f *formatter) IsJSON() bool   { return f.mode == ModeJSON }
func (f *formatter) IsQuiet() bool  { return f.quiet }
func (f *formatter) Colored() bool  { return f.color }
func (f *formatter) Out() io.Writer { return f.stdout }

// PrintJSON outputs data as JSON to stdout
func (f *formatter) PrintJSON(data any) error {
	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintTable outputs data as ASCII table to stdout
func (f *formatter) PrintTable(headers []string, rows [][]string) error {
	if f.mode == ModeJSON {
		items := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			items = append(items, item)
		}
		return f.PrintJSON(items)
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	headerLine := headers
	if f.color {
		headerLine = make([]string, len(headers))
		for i, h := range headers {
			headerLine[i] = color.New(color.Bold).Sprint(strings.ToUpper(h))
		}
	}
	if _, err := fmt.Fprintln(w, strings.Join(headerLine, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

// PrintSummary outputs a summary message to stdout (unless quiet mode)
func (f *formatter) PrintSummary(message string) error {
	if f.quiet {
		return nil
	}

	if f.mode == ModeJSON {
		// keep stdout parseable
		_, err := fmt.Fprintln(f.stderr, message)
		return err
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}

	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

// PrintError outputs an error to stderr (or JSON to stdout in JSON mode)
func (f *formatter) PrintError(err error) error {
	if err == nil {
		return nil
	}

	if f.mode == ModeJSON {
		return f.PrintJSON(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	var writeErr error
	if f.color {
		_, writeErr = color.New(color.FgRed).Fprintf(f.stderr, "Error: %v\n", err)
	} else {
		_, writeErr = fmt.Fprintf(f.stderr, "Error: %v\n", err)
	}

	return writeErr
}

// ValidateMode checks if the output mode is valid
func ValidateMode(mode string) error {
	switch OutputMode(strings.ToLower(mode)) {
	case ModeJSON, ModeTable, "text", "":
		return nil
	default:
		return fmt.Errorf("invalid output mode: %s (must be 'json' or 'table')", mode)
	}
}

// ParseMode converts a string to OutputMode. "text" is accepted as an
// alias for table.
func ParseMode(mode string) OutputMode {
	switch strings.ToLower(mode) {
	case "json":
		return ModeJSON
	default:
		return ModeTable
	}
}
