package bind

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/kismetcam/kismetcam/pkg/config"
	"github.com/kismetcam/kismetcam/pkg/report"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "scan"}
	f := cmd.Flags()
	f.Int64("since", 0, "")
	f.Bool("progress", false, "")
	f.String("export", "", "")
	f.String("manufacturer-filter", "", "")
	f.String("category-filter", "", "")
	f.Float64("exact-frequency", 0, "")
	f.String("frequency-range", "", "")
	f.String("frequency-band", "", "")
	f.String("channel-filter", "", "")
	f.Float64("min-confidence", 0, "")
	f.Bool("group-by-manufacturer", false, "")
	f.Bool("group-by-frequency", false, "")
	f.Bool("no-manufacturer-summary", false, "")
	f.Bool("no-frequency-summary", false, "")
	return cmd
}

func TestBindScanOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Lookup.Enabled = true
	cfg.Watch.Interval = 30 * time.Second
	cfg.Metrics.Addr = ":9108"

	tests := []struct {
		name   string
		args   map[string]string
		assert func(t *testing.T, opts ScanOptions)
	}{
		{
			name: "defaults",
			assert: func(t *testing.T, opts ScanOptions) {
				require.True(t, opts.Params.UseVendorLookup)
				require.True(t, opts.Params.Probe)
				require.True(t, opts.Params.Filter.IsZero())
				require.True(t, opts.ManufacturerSummary)
				require.True(t, opts.FrequencySummary)
				require.Equal(t, GroupNone, opts.GroupBy)
				require.Equal(t, 30*time.Second, opts.Watch)
				require.Equal(t, ":9108", opts.MetricsAddr)
			},
		},
		{
			name: "filters",
			args: map[string]string{
				"manufacturer-filter": "hik",
				"category-filter":     "camera",
				"frequency-range":     "2.4-2.5",
				"frequency-band":      "2.4GHz",
				"channel-filter":      "6",
				"min-confidence":      "0.6",
				"since":               "1700000000",
			},
			assert: func(t *testing.T, opts ScanOptions) {
				f := opts.Params.Filter
				require.Equal(t, "hik", f.Manufacturer)
				require.Equal(t, "camera", f.Category)
				require.Equal(t, "2.4-2.5", f.FrequencyRange)
				require.Equal(t, "2.4GHz", f.Band)
				require.Equal(t, "6", f.Channel)
				require.InDelta(t, 0.6, f.MinConfidence, 1e-9)
				require.Nil(t, f.ExactFrequency)
				require.Equal(t, int64(1700000000), opts.Params.Since)
			},
		},
		{
			name: "exact frequency zero is still a filter",
			args: map[string]string{"exact-frequency": "0"},
			assert: func(t *testing.T, opts ScanOptions) {
				require.NotNil(t, opts.Params.Filter.ExactFrequency)
				require.Zero(t, *opts.Params.Filter.ExactFrequency)
			},
		},
		{
			name: "views",
			args: map[string]string{
				"group-by-frequency":      "true",
				"no-manufacturer-summary": "true",
				"export":                  "cams.csv",
				"progress":                "true",
			},
			assert: func(t *testing.T, opts ScanOptions) {
				require.Equal(t, GroupFrequency, opts.GroupBy)
				require.False(t, opts.ManufacturerSummary)
				require.True(t, opts.FrequencySummary)
				require.Equal(t, "cams.csv", opts.ExportPath)
				require.True(t, opts.Progress)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newScanCmd()
			for k, v := range tt.args {
				require.NoError(t, cmd.Flags().Set(k, v))
			}
			opts, err := BindScanOptions(cmd, cfg)
			require.NoError(t, err)
			tt.assert(t, opts)
		})
	}
}

func TestBindScanOptionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]string
		wantCode string
	}{
		{
			name:     "both groupings",
			args:     map[string]string{"group-by-manufacturer": "true", "group-by-frequency": "true"},
			wantCode: scanexec.CodeInvalidConfig,
		},
		{
			name:     "negative since",
			args:     map[string]string{"since": "-5"},
			wantCode: scanexec.CodeInvalidConfig,
		},
		{
			name:     "unknown category",
			args:     map[string]string{"category-filter": "printer"},
			wantCode: scanexec.CodeInvalidFilter,
		},
		{
			name:     "unknown band",
			args:     map[string]string{"frequency-band": "60GHz"},
			wantCode: scanexec.CodeInvalidFilter,
		},
		{
			name:     "export extension",
			args:     map[string]string{"export": "cams.xml"},
			wantCode: scanexec.CodeExportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newScanCmd()
			for k, v := range tt.args {
				require.NoError(t, cmd.Flags().Set(k, v))
			}
			_, err := BindScanOptions(cmd, config.DefaultConfig())
			require.Error(t, err)
			require.Equal(t, tt.wantCode, scanexec.ErrorCode(err))
		})
	}

	t.Run("export error keeps its cause", func(t *testing.T) {
		cmd := newScanCmd()
		require.NoError(t, cmd.Flags().Set("export", "cams.xml"))
		_, err := BindScanOptions(cmd, config.DefaultConfig())
		require.ErrorIs(t, err, report.ErrUnsupportedFormat)
	})
}
