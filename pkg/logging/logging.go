// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	stdLog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// logOutput is where log lines go; stderr keeps stdout free for results.
var logOutput io.Writer = os.Stderr

// stdLogWriter reroutes output of the standard library logger, used by
// net/http and a few dependencies, into zerolog.
type stdLogWriter struct {
	logger zerolog.Logger
}

func (w *stdLogWriter) Write(p []byte) (n int, err error) {
	message := strings.TrimSpace(string(p))
	if message != "" {
		w.logger.Debug().Str("source", "stdlog").Msg(message)
	}
	return len(p), nil
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(newWriter(FormatText, logOutput)).With().Timestamp().Logger()
}

// ConfigureGlobalLogging sets the global level and output format. Unknown
// levels fall back to info; unknown formats fall back to text.
func ConfigureGlobalLogging(levelStr, format string) error {
	level := ParseLevel(levelStr)
	zerolog.SetGlobalLevel(level)

	logContext := zerolog.New(newWriter(format, logOutput)).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	stdLog.SetFlags(0)
	stdLog.SetOutput(&stdLogWriter{logger: WithLevelOverride(log.Logger, zerolog.DebugLevel)})
	return nil
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(levelString string) zerolog.Level {
	if levelString == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil || level == zerolog.NoLevel {
		log.Warn().
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to info level.")
		return zerolog.InfoLevel
	}
	return level
}

func newWriter(format string, out io.Writer) io.Writer {
	if strings.EqualFold(format, FormatJSON) {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

// SetLogWriter redirects subsequent loggers to w.
func SetLogWriter(w io.Writer) {
	logOutput = w
}

// NewLogger returns a component logger on the global output.
func NewLogger(component string, level zerolog.Level) zerolog.Logger {
	return NewLoggerWithWriter(component, level, logOutput)
}

// NewLoggerWithWriter returns a JSON component logger writing to w.
func NewLoggerWithWriter(component string, level zerolog.Level, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", component).Logger()
}

// LevelOverrideHook assigns a level to events logged without one and drops
// everything when the logger's level is above that target.
type LevelOverrideHook struct {
	minSeverity zerolog.Level
	targetLevel zerolog.Level
}

func NewLevelOverrideHook(minSeverity, targetLevel zerolog.Level) *LevelOverrideHook {
	return &LevelOverrideHook{
		minSeverity: minSeverity,
		targetLevel: targetLevel,
	}
}

// Run implements zerolog.Hook.
func (h LevelOverrideHook) Run(e *zerolog.Event, currentLevel zerolog.Level, _ string) {
	if h.minSeverity > h.targetLevel {
		e.Discard()
		return
	}
	if currentLevel == zerolog.NoLevel {
		e.Str("level", h.targetLevel.String())
	}
}

// WithLevelOverride attaches a LevelOverrideHook targeting targetLevel.
func WithLevelOverride(logger zerolog.Logger, targetLevel zerolog.Level) zerolog.Logger {
	return logger.Hook(NewLevelOverrideHook(logger.GetLevel(), targetLevel))
}
