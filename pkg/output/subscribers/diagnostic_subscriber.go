// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package subscribers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/kismetcam/kismetcam/pkg/output"
)

var (
	candidateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")). // Bright green
			Bold(true)

	nearMissStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Cyan

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // Red

	diagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")) // Gray

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// DiagnosticSubscriber writes diagnostics and live candidates up to a
// verbosity level, typically to stderr.
//
// Verbosity levels:
//   - LevelVerbose (1): -v or --progress
//   - LevelDebug (2): -vv
//   - LevelTrace (3): -vvv
type DiagnosticSubscriber struct {
	level        output.OutputLevel
	writer       io.Writer
	colorEnabled bool
}

// NewDiagnosticSubscriber creates a DiagnosticSubscriber. Colors follow
// fatih/color's terminal detection and NO_COLOR.
func NewDiagnosticSubscriber(level output.OutputLevel, writer io.Writer) *DiagnosticSubscriber {
	return &DiagnosticSubscriber{
		level:        level,
		writer:       writer,
		colorEnabled: !color.NoColor,
	}
}

// WithColor forces colored output on or off.
func (s *DiagnosticSubscriber) WithColor(enabled bool) *DiagnosticSubscriber {
	s.colorEnabled = enabled
	return s
}

func (s *DiagnosticSubscriber) Name() string {
	return "diagnostic-subscriber"
}

// ShouldHandle accepts diagnostics and candidates at or below the
// subscriber level.
func (s *DiagnosticSubscriber) ShouldHandle(event output.OutputEvent) bool {
	if event.Type != output.EventDiag && event.Type != output.EventCandidate {
		return false
	}
	return event.Level <= s.level
}

func (s *DiagnosticSubscriber) Handle(event output.OutputEvent) {
	prefix := getLevelPrefix(event.Level)
	line := fmt.Sprintf("%s %s %s", prefix, event.Timestamp.Format("15:04:05"), event.Message)

	if !s.colorEnabled {
		fmt.Fprint(s.writer, line)
		if len(event.Metadata) > 0 {
			fmt.Fprintf(s.writer, " %+v", event.Metadata)
		}
		fmt.Fprintln(s.writer)
		return
	}

	var styled string
	switch {
	case event.Type == output.EventCandidate:
		styled = candidateStyle.Render("  📹 " + event.Message)
	case strings.HasPrefix(event.Message, "Near miss:"):
		styled = nearMissStyle.Render("  ~ " + event.Message)
	case strings.HasPrefix(event.Message, "Failed "):
		styled = failStyle.Render("  ✗ " + event.Message)
	case strings.HasPrefix(event.Message, "Starting "), strings.HasPrefix(event.Message, "Finished "):
		styled = phaseStyle.Render("  » " + event.Message)
	default:
		styled = diagStyle.Render(line)
	}
	fmt.Fprintln(s.writer, styled)

	if len(event.Metadata) > 0 {
		fmt.Fprintln(s.writer, metaStyle.Render(fmt.Sprintf("    %+v", event.Metadata)))
	}
}

func getLevelPrefix(level output.OutputLevel) string {
	switch level {
	case output.LevelVerbose:
		return "[VERBOSE]"
	case output.LevelDebug:
		return "[DEBUG]"
	case output.LevelTrace:
		return "[TRACE]"
	default:
		return "[INFO]"
	}
}
