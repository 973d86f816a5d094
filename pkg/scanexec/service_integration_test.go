//go:build integration

package scanexec

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kismetcam/kismetcam/pkg/kismet"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
	"github.com/kismetcam/kismetcam/pkg/probe"
)

// TestRunAgainstFakeKismet runs a full scan through the real Kismet client
// and TCP prober against a fake server on localhost.
func TestRunAgainstFakeKismet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/devices/views/all/devices.json":
			fmt.Fprint(w, `[{
				"kismet.device.base.macaddr": "00:12:15:00:00:01",
				"kismet.device.base.commonname": "Lobby IPCam",
				"kismet.device.base.frequency": 5180000,
				"kismet.device.base.ip": [{"address": "127.0.0.1"}]
			}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client := kismet.NewClient(kismet.Config{Host: srv.URL, APIKey: "k", Timeout: 5 * time.Second})
	svc := NewService(client, manufacturer.NewResolver(manufacturer.MustLoadBuiltin())).
		WithProber(probe.New(time.Second, nil))

	res, err := svc.Run(context.Background(), Params{Probe: true})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	require.Equal(t, 1.0, res.Candidates[0].Confidence)

	require.Equal(t, "Axis Communications", res.Candidates[0].Device.Manufacturer.Name)
}
