package device

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

const fullRecord = `{
  "kismet.device.base.key": "4202770D00000000_1500120000000000",
  "kismet.device.base.macaddr": "00:12:15:AA:BB:CC",
  "kismet.device.base.commonname": "Lobby-IPCam",
  "kismet.device.base.name": "ignored",
  "kismet.device.base.type": "Wi-Fi Client",
  "kismet.device.base.manuf": "Axis",
  "kismet.device.base.signal": {"kismet.common.signal.last_signal": -61},
  "kismet.device.base.channel": "6",
  "kismet.device.base.last_time": 1718000000,
  "kismet.device.base.frequency": 2437000,
  "kismet.device.base.ip": [{"address": "10.0.0.5"}, {"address": "10.0.0.6"}, {"nope": 1}],
  "kismet.device.base.basic_type_set": ["Wi-Fi Client", "Wi-Fi Device"],
  "kismet.device.base.packets.total": 150,
  "kismet.device.base.packets.rx_total": 20,
  "kismet.device.base.packets.tx_total": 130,
  "kismet.device.base.packets.data": 60,
  "kismet.device.base.packets.llc": 4
}`

func newParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(manufacturer.NewResolver(manufacturer.MustLoadBuiltin()))
}

func TestParse_FullRecord(t *testing.T) {
	d := newParser(t).Parse([]byte(fullRecord))

	assert.Equal(t, "4202770D00000000_1500120000000000", d.Key)
	assert.Equal(t, "00:12:15:AA:BB:CC", d.MAC)
	assert.Equal(t, "Lobby-IPCam", d.Name)
	assert.Equal(t, "Wi-Fi Client", d.Type)
	assert.Equal(t, "Axis", d.Vendor)
	require.NotNil(t, d.Signal)
	assert.Equal(t, -61, *d.Signal)
	assert.Equal(t, "6", d.Channel)
	assert.Equal(t, int64(1718000000), d.LastSeen)
	assert.Equal(t, []string{"10.0.0.5", "10.0.0.6"}, d.IPAddresses)
	assert.Equal(t, []string{"Wi-Fi Client", "Wi-Fi Device"}, d.TypeSet)

	require.NotNil(t, d.Manufacturer)
	assert.Equal(t, "Axis Communications", d.Manufacturer.Name)
	assert.Equal(t, manufacturer.SourceHardcoded, d.Manufacturer.Source)

	require.NotNil(t, d.Frequency)
	assert.Equal(t, 2437.0, d.Frequency.MHz)
	assert.Equal(t, frequency.Band24GHz, d.Frequency.Band)
	assert.Equal(t, "6", d.Frequency.Channel)

	c := d.Counters()
	assert.Equal(t, PacketCounters{Total: 150, RX: 20, TX: 130, Data: 60, LLC: 4}, c)
	assert.InDelta(t, 0.4, c.DataRatio(), 1e-9)
}

func TestParse_NameFallback(t *testing.T) {
	d := newParser(t).Parse([]byte(`{
		"kismet.device.base.commonname": "",
		"kismet.device.base.name": "backyard"
	}`))
	assert.Equal(t, "backyard", d.Name)
	assert.Equal(t, "backyard", d.DisplayName())
}

func TestParse_DegradesGracefully(t *testing.T) {
	p := newParser(t)

	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"not json", `garbage`},
		{"array", `[1,2,3]`},
		{"mistyped fields", `{
			"kismet.device.base.macaddr": 42,
			"kismet.device.base.signal": "strong",
			"kismet.device.base.frequency": "n/a",
			"kismet.device.base.ip": {"address": "10.0.0.1"},
			"kismet.device.base.basic_type_set": "Wi-Fi AP",
			"kismet.device.base.packets.total": "lots"
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Parse([]byte(tt.raw))
			assert.Empty(t, d.MAC)
			assert.Empty(t, d.Name)
			assert.Nil(t, d.Signal)
			assert.Nil(t, d.Manufacturer)
			assert.Nil(t, d.Frequency)
			assert.Empty(t, d.IPAddresses)
			assert.Empty(t, d.TypeSet)
			assert.Equal(t, PacketCounters{}, d.Counters())
		})
	}
}

func TestParse_KismetVendorWithoutCatalogPrefix(t *testing.T) {
	d := newParser(t).Parse([]byte(`{
		"kismet.device.base.macaddr": "02:11:22:33:44:55",
		"kismet.device.base.manuf": "Hangzhou Hikvision Digital Technology Co.,Ltd."
	}`))
	require.NotNil(t, d.Manufacturer)
	assert.Equal(t, "Hikvision Digital Technology", d.Manufacturer.Name)
	assert.Equal(t, manufacturer.SourceKismet, d.Manufacturer.Source)
}

func TestParse_NilResolver(t *testing.T) {
	d := NewParser(nil).Parse([]byte(fullRecord))
	assert.Nil(t, d.Manufacturer)
	assert.NotNil(t, d.Frequency)
}

func TestParseAll_PreservesOrder(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"kismet.device.base.key": "a"}`),
		json.RawMessage(`{"kismet.device.base.key": "b"}`),
		json.RawMessage(`{"kismet.device.base.key": "c"}`),
	}
	devices := newParser(t).ParseAll(records)
	require.Len(t, devices, 3)
	assert.Equal(t, "a", devices[0].Key)
	assert.Equal(t, "c", devices[2].Key)
}

func TestPacketCounters_Ratios(t *testing.T) {
	assert.Zero(t, PacketCounters{}.TXRatio())
	assert.Zero(t, PacketCounters{TX: 5, Data: 5}.DataRatio())

	c := PacketCounters{Total: 2000, TX: 1900, Data: 50}
	assert.InDelta(t, 0.95, c.TXRatio(), 1e-9)
	assert.InDelta(t, 0.025, c.DataRatio(), 1e-9)
}
