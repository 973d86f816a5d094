// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"fmt"

	"github.com/kismetcam/kismetcam/pkg/scanexec"
)

// ScanProgress turns scan progress notifications into stream events.
type ScanProgress struct {
	stream *OutputEventStream
}

// NewScanProgress returns a scanexec.ProgressSink writing to stream.
func NewScanProgress(stream *OutputEventStream) *ScanProgress {
	return &ScanProgress{stream: stream}
}

func (p *ScanProgress) OnEvent(e scanexec.ProgressEvent) {
	event := OutputEvent{
		Type:      EventDiag,
		Level:     LevelVerbose,
		Timestamp: e.Timestamp,
	}

	switch e.Status {
	case "candidate":
		event.Type = EventCandidate
		event.Message = fmt.Sprintf("Camera candidate: %s (%.0f%%)", e.Device, e.Confidence*100)
		event.Metadata = map[string]any{"confidence": e.Confidence}
	case "near_miss":
		event.Level = LevelDebug
		event.Message = fmt.Sprintf("Near miss: %s (%.0f%%)", e.Device, e.Confidence*100)
		event.Metadata = map[string]any{"reasons": e.Message}
	case "start":
		event.Message = "Starting " + e.Phase
	case scanexec.StatusFailed:
		event.Message = fmt.Sprintf("Failed %s: %s", e.Phase, e.Message)
	default:
		event.Message = fmt.Sprintf("Finished %s", e.Phase)
		if e.Message != "" {
			event.Message += ": " + e.Message
		}
	}

	p.stream.Emit(event)
}
