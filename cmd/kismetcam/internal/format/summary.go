// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/kismetcam/kismetcam/pkg/scanexec"
)

// PrintSuccessSummary prints a standardized success message
// Examples:
//   - "✓ Export completed: 3 candidates written to cams.csv"
//   - "✓ Scan completed successfully"
func (f *formatter) PrintSuccessSummary(operation, detail string) error {
	if f.quiet {
		return nil
	}

	if f.mode == ModeJSON {
		// stdout carries the command's own document in JSON mode
		_, err := fmt.Fprintf(f.stderr, "%s completed: %s\n", operation, detail)
		return err
	}

	message := fmt.Sprintf("✓ %s completed successfully", capitalize(operation))
	if detail != "" {
		message = fmt.Sprintf("✓ %s completed: %s", capitalize(operation), detail)
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}

	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

// PrintTotalFailureSummary prints total failure with error and suggestions
// Example output:
//
//	✗ Failed to scan: kismet API key is required
//
//	💡 Suggestions:
//	  → Pass the key:               kismetcam scan --api-key <key>
//	  → Or export it:               export KISMET_API_KEY=<key>
func (f *formatter) PrintTotalFailureSummary(operation string, err error) error {
	if f.quiet {
		return nil
	}

	errorCode := scanexec.ErrorCode(err)
	if f.mode == ModeJSON {
		return f.PrintJSON(map[string]any{
			"success":    false,
			"operation":  operation,
			"error":      err.Error(),
			"error_code": errorCode,
		})
	}

	var sb strings.Builder

	errorMsg := fmt.Sprintf("✗ Failed to %s: %v", operation, err)
	if f.color {
		sb.WriteString(color.RedString("%s\n", errorMsg))
	} else {
		sb.WriteString(errorMsg + "\n")
	}

	if suggestions := scanexec.Suggestions(err); len(suggestions) > 0 {
		sb.WriteString("\n💡 Suggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&sb, "  → %s\n", s)
		}
	}

	// failures go to stderr so a piped report stays clean
	_, writeErr := f.stderr.Write([]byte(sb.String()))
	return writeErr
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
