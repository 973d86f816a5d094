// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import "time"

// EventType classifies an OutputEvent.
type EventType int

const (
	// EventDiag is a diagnostic line for the -v/-vv/-vvv stream.
	EventDiag EventType = iota
	// EventCandidate announces a camera candidate while a scan runs.
	EventCandidate
)

// OutputLevel is the verbosity an event needs before it is shown.
type OutputLevel int

const (
	LevelNormal OutputLevel = iota
	LevelVerbose
	LevelDebug
	LevelTrace
)

// OutputEvent is one message on the stream.
type OutputEvent struct {
	Type      EventType
	Level     OutputLevel
	Message   string
	Metadata  map[string]any
	Timestamp time.Time
}
