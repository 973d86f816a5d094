// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package version provides version metadata for the application.
package version

import (
	"fmt"
	"runtime"
	"time"
)

// These variables are injected at build time using -ldflags.
var (
	// Version holds the current version of kismetcam.
	Version = "dev"
	// Commit holds the commit the binary was built from.
	Commit = "none"
	// BuildDate holds the build date of kismetcam.
	BuildDate = "unknown"
	// StartDate holds the process start time.
	StartDate = time.Now()
)

// Struct returns version information in a structured format.
type Struct struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"buildDate" yaml:"build_date"`
	GoVersion string `json:"goVersion" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("Kismetcam %s (commit: %s, date: %s)", Version, Commit, BuildDate)
}

// Get returns version information as a Struct.
func Get() Struct {
	return Struct{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Uptime reports how long the process has been running.
func Uptime() time.Duration {
	return time.Since(StartDate).Truncate(time.Second)
}
