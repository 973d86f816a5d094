// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package paths locates per-user kismetcam files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the name of the configuration file in ConfigDir.
const ConfigFileName = "config.yaml"

// ConfigDir returns the config directory for kismetcam.
// Order: XDG_CONFIG_HOME/kismetcam, %AppData%\Kismetcam on Windows,
// ~/.kismetcam. It is empty when no home directory is known.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kismetcam")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "Kismetcam")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".kismetcam")
}

// ConfigFile returns the default configuration file path, or "" when
// ConfigDir is unknown.
func ConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFileName)
}
