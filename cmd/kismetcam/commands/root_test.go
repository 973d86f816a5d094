package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kismetcam/kismetcam/pkg/results"
	"github.com/kismetcam/kismetcam/pkg/scanexec"
	"github.com/kismetcam/kismetcam/pkg/version"
)

const lobbyCam = `[{
	"kismet.device.base.macaddr": "00:12:15:00:00:01",
	"kismet.device.base.commonname": "Lobby IPCam",
	"kismet.device.base.frequency": 5180000
}]`

// isolate keeps the user's config file and environment out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, name := range []string{"KISMET_API_KEY", "KISMET_HOST"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func fakeKismet(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("KISMET") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/devices/views/all/devices.json":
			fmt.Fprint(w, lobbyCam)
		case "/system/status.json":
			fmt.Fprint(w, `{"kismet.system.version": "2023-07-R1", "kismet.system.devices.count": 1}`)
		case "/datasource/all_sources.json":
			fmt.Fprint(w, `[{"kismet.datasource.name": "wlan1", "kismet.datasource.interface": "wlan1", "kismet.datasource.running": 1}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionShort(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)
}

func TestVersionJSON(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "version", "--output", "json")
	require.NoError(t, err)

	var info version.Struct
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestInvalidOutputMode(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "version", "--output", "xml")
	require.Error(t, err)
	assert.Equal(t, 2, scanexec.ExitCode(err))
}

func TestInvalidConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	_, errOut, err := execute(t, "--config", path, "version")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Equal(t, 2, scanexec.ExitCode(err))
	assert.Contains(t, errOut, "Failed to load configuration")
}

func TestScanRequiresAPIKey(t *testing.T) {
	isolate(t)
	_, errOut, err := execute(t, "scan", "--no-color")
	require.ErrorIs(t, err, scanexec.ErrMissingAPIKey)
	assert.Equal(t, 2, scanexec.ExitCode(err))
	assert.Contains(t, errOut, "KISMET_API_KEY")
}

func TestScanJSON(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)

	out, _, err := execute(t, "scan", "--host", srv.URL, "--api-key", "secret", "--no-probe", "--output", "json")
	require.NoError(t, err)

	var res scanexec.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, scanexec.StatusCompleted, res.Status)
	assert.Equal(t, 1, res.DevicesSeen)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Axis Communications", res.Candidates[0].Device.Manufacturer.Name)
}

func TestScanLegacyEnvKey(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)
	t.Setenv("KISMET_API_KEY", "secret")
	t.Setenv("KISMET_HOST", srv.URL)

	out, _, err := execute(t, "scan", "--no-probe", "--no-color", "--group-by-manufacturer")
	require.NoError(t, err)
	assert.Contains(t, out, "Axis Communications")
	assert.Contains(t, out, "Scan completed")
}

func TestScanFilterRejected(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)

	_, errOut, err := execute(t, "scan", "--host", srv.URL, "--api-key", "secret", "--no-color", "--category-filter", "printer")
	require.ErrorIs(t, err, scanexec.ErrInvalidFilter)
	assert.Equal(t, 2, scanexec.ExitCode(err))
	assert.Contains(t, errOut, "Categories:")
}

func TestScanExport(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)
	path := filepath.Join(t.TempDir(), "cams.csv")

	out, _, err := execute(t, "scan", "--host", srv.URL, "--api-key", "secret", "--no-probe", "--no-color", "--export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 candidates written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "00:12:15:00:00:01")
}

func TestScanExactFrequencyHelp(t *testing.T) {
	flag := newScanCommand().Flags().Lookup("exact-frequency")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, fmt.Sprintf("within %g GHz", results.DefaultFrequencyTolerance))
	assert.Contains(t, flag.Usage, "0.001 GHz")
}

func TestStatus(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)

	out, _, err := execute(t, "status", "--host", srv.URL, "--api-key", "secret", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-07-R1")
	assert.Contains(t, out, "Connected to Kismet")
}

func TestStatusConnectionFailed(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)

	_, errOut, err := execute(t, "status", "--host", srv.URL, "--api-key", "wrong", "--no-color")
	require.ErrorIs(t, err, scanexec.ErrConnectionFailed)
	assert.Equal(t, 1, scanexec.ExitCode(err))
	assert.Contains(t, errOut, "Failed to connect")
}

func TestSources(t *testing.T) {
	isolate(t)
	srv := fakeKismet(t)

	out, _, err := execute(t, "sources", "--host", srv.URL, "--api-key", "secret", "--output", "json")
	require.NoError(t, err)

	var sources []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, "wlan1", sources[0]["name"])
	assert.Equal(t, true, sources[0]["running"])
}

func TestLookup(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"hardcoded prefix", []string{"lookup", "00-12-15-aa-bb-cc"}, "Axis Communications"},
		{"vendor string", []string{"lookup", "02:00:00:00:00:01", "--vendor", "Hikvision Digital"}, "kismet"},
		{"unknown", []string{"lookup", "02:00:00:00:00:01"}, "manufacturer unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append(tt.args, "--no-color")...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}

	t.Run("invalid address", func(t *testing.T) {
		_, _, err := execute(t, "lookup", "00:12", "--no-color")
		require.Error(t, err)
		assert.Equal(t, 2, scanexec.ExitCode(err))
	})
}

func TestEffectiveLevel(t *testing.T) {
	assert.Equal(t, "info", effectiveLevel("info", 0))
	assert.Equal(t, "debug", effectiveLevel("info", 1))
	assert.Equal(t, "trace", effectiveLevel("trace", 1))
	assert.Equal(t, "trace", effectiveLevel("warn", 3))
}
