// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"github.com/spf13/cobra"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/output"
	"github.com/kismetcam/kismetcam/pkg/output/subscribers"
)

// setupOutputPipeline creates the diagnostic stream for a scan.
//
// The level is the -v count, raised to verbose by --progress:
//   - -v or --progress: phases and candidates
//   - -vv: near misses as well
//   - -vvv: everything
//
// JSON mode keeps stderr quiet apart from logs, so nothing subscribes.
func setupOutputPipeline(cmd *cobra.Command, f format.Formatter, progress bool) *output.OutputEventStream {
	stream := output.NewOutputEventStream()

	verbosityCount, _ := cmd.Flags().GetCount("verbosity")
	level := output.OutputLevel(verbosityCount)
	if progress && level < output.LevelVerbose {
		level = output.LevelVerbose
	}
	if level > output.LevelTrace {
		level = output.LevelTrace
	}

	if !f.IsJSON() && level > output.LevelNormal {
		stream.Subscribe(subscribers.NewDiagnosticSubscriber(level, cmd.ErrOrStderr()).WithColor(f.Colored()))
	}
	return stream
}
