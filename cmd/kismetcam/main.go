// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"fmt"
	"os"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/commands"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
)

// main runs the CLI and exits with:
//   - 0: success
//   - 1: runtime failure (connection, export, scan)
//   - 2: invalid usage (missing API key, bad configuration or filter)
func main() {
	err := commands.NewCommand().Execute()
	if err == nil {
		return
	}
	if !commands.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(scanexec.ExitCode(err))
}
