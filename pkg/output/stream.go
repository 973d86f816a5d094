// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package output dispatches scan events to terminal renderers.
package output

import (
	"sync"
	"time"
)

// OutputSubscriber renders the events it accepts.
type OutputSubscriber interface {
	// Handle is called synchronously from Emit.
	Handle(event OutputEvent)

	Name() string

	// ShouldHandle filters events before Handle is called.
	ShouldHandle(event OutputEvent) bool
}

// OutputEventStream is a synchronous dispatcher. Subscribers are called in
// registration order so stderr lines keep their order.
type OutputEventStream struct {
	subscribers []OutputSubscriber
	mu          sync.RWMutex
	now         func() time.Time
}

// NewOutputEventStream creates a stream with no subscribers.
func NewOutputEventStream() *OutputEventStream {
	return &OutputEventStream{
		subscribers: make([]OutputSubscriber, 0, 2),
		now:         time.Now,
	}
}

// Subscribe registers sub.
func (s *OutputEventStream) Subscribe(sub OutputSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Emit dispatches event to every interested subscriber. A zero timestamp
// is filled in.
func (s *OutputEventStream) Emit(event OutputEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subscribers {
		if sub.ShouldHandle(event) {
			sub.Handle(event)
		}
	}
}

// Diag emits a diagnostic event at level.
func (s *OutputEventStream) Diag(level OutputLevel, msg string, metadata map[string]any) {
	s.Emit(OutputEvent{Type: EventDiag, Level: level, Message: msg, Metadata: metadata})
}

// SubscriberCount returns the number of registered subscribers.
func (s *OutputEventStream) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
