package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
	"github.com/kismetcam/kismetcam/pkg/output"
)

func TestSetupOutputPipeline(t *testing.T) {
	tests := []struct {
		name        string
		verbosity   string
		progress    bool
		mode        format.OutputMode
		subscribers int
	}{
		{name: "quiet by default", mode: format.ModeTable},
		{name: "progress enables diagnostics", progress: true, mode: format.ModeTable, subscribers: 1},
		{name: "verbosity enables diagnostics", verbosity: "2", mode: format.ModeTable, subscribers: 1},
		{name: "json mode never subscribes", verbosity: "3", progress: true, mode: format.ModeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "scan"}
			cmd.Flags().CountP("verbosity", "v", "")
			if tt.verbosity != "" {
				require.NoError(t, cmd.Flags().Set("verbosity", tt.verbosity))
			}
			var errOut bytes.Buffer
			cmd.SetErr(&errOut)

			f := format.New(&bytes.Buffer{}, &errOut, tt.mode, false, false)
			stream := setupOutputPipeline(cmd, f, tt.progress)
			require.Equal(t, tt.subscribers, stream.SubscriberCount())

			stream.Diag(output.LevelVerbose, "Starting fetch", nil)
			if tt.subscribers > 0 {
				require.Contains(t, errOut.String(), "Starting fetch")
			} else {
				require.Empty(t, errOut.String())
			}
		})
	}
}
