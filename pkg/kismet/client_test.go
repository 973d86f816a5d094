package kismet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type route struct {
	status int
	body   string
}

func newServer(t *testing.T, routes map[string]route) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("KISMET"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		seen = append(seen, r.URL.Path)

		rt, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if rt.status != 0 {
			w.WriteHeader(rt.status)
		}
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newClient(srv *httptest.Server) *Client {
	c := NewClient(Config{Host: srv.URL + "/", APIKey: "secret", Timeout: time.Second, StatusTimeout: time.Second})
	c.now = func() time.Time { return time.Unix(1_000_000, 0) }
	return c
}

func TestStatus(t *testing.T) {
	srv, _ := newServer(t, map[string]route{
		"/system/status.json": {body: `{
			"kismet.system.version": "2023-07-R1",
			"kismet.system.server_name": "sensor-01",
			"kismet.system.timestamp.start_sec": 1700000000,
			"kismet.system.devices.count": 42
		}`},
	})

	st, err := newClient(srv).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Status{Version: "2023-07-R1", ServerName: "sensor-01", StartTime: 1700000000, Devices: 42}, st)
}

func TestStatus_Unauthorized(t *testing.T) {
	srv, _ := newServer(t, map[string]route{
		"/system/status.json": {status: http.StatusUnauthorized},
	})

	_, err := newClient(srv).Status(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestDevices_AllView(t *testing.T) {
	srv, seen := newServer(t, map[string]route{
		"/devices/views/all/devices.json": {body: `[{"kismet.device.base.key":"a"},{"kismet.device.base.key":"b"}]`},
	})

	records, err := newClient(srv).Devices(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"kismet.device.base.key":"b"}`, string(records[1]))
	assert.Equal(t, []string{"/devices/views/all/devices.json"}, *seen)
}

func TestDevices_Since(t *testing.T) {
	srv, seen := newServer(t, map[string]route{
		"/devices/last-time/1700000000/devices.json": {body: `[]`},
	})

	records, err := newClient(srv).Devices(context.Background(), 1700000000)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, []string{"/devices/last-time/1700000000/devices.json"}, *seen)
}

func TestDevices_FallbackOnNotFound(t *testing.T) {
	srv, seen := newServer(t, map[string]route{
		"/devices/last-time/999700/devices.json": {body: `[{"kismet.device.base.key":"x"}]`},
	})

	records, err := newClient(srv).Devices(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{
		"/devices/views/all/devices.json",
		"/devices/last-time/999700/devices.json",
	}, *seen)
}

func TestDevices_Errors(t *testing.T) {
	srv, _ := newServer(t, map[string]route{
		"/devices/views/all/devices.json":   {body: `{"not":"an array"}`},
		"/devices/last-time/5/devices.json": {status: http.StatusInternalServerError},
		"/devices/last-time/6/devices.json": {body: `not json`},
	})
	c := newClient(srv)
	ctx := context.Background()

	_, err := c.Devices(ctx, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a JSON array")

	_, err = c.Devices(ctx, 5)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)

	_, err = c.Devices(ctx, 6)
	require.Error(t, err)
}

func TestSources(t *testing.T) {
	srv, _ := newServer(t, map[string]route{
		"/datasource/all_sources.json": {body: `[{
			"kismet.datasource.uuid": "5FE308BD-0000-0000-0000-00C0CA9A2E11",
			"kismet.datasource.name": "wlan1",
			"kismet.datasource.interface": "wlan1",
			"kismet.datasource.hardware": "rt2800usb",
			"kismet.datasource.channel": "6",
			"kismet.datasource.hopping": 1,
			"kismet.datasource.running": 1,
			"kismet.datasource.type_driver": {"kismet.datasource.driver.type": "linuxwifi"}
		}]`},
	})

	sources, err := newClient(srv).Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, Source{
		UUID:      "5FE308BD-0000-0000-0000-00C0CA9A2E11",
		Name:      "wlan1",
		Interface: "wlan1",
		Driver:    "linuxwifi",
		Hardware:  "rt2800usb",
		Channel:   "6",
		Hopping:   true,
		Running:   true,
	}, sources[0])
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newClient(srv)
	srv.Close()

	_, err := c.Status(context.Background())
	require.Error(t, err)
	var se *StatusError
	assert.NotErrorAs(t, err, &se)
}
