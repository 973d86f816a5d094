package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_UnitInferenceAgrees(t *testing.T) {
	inputs := []any{2.437, 2437, 2437000, 2437000000, "2437", "2437000", int64(2437000000)}

	for _, in := range inputs {
		info := Normalize(in, "")
		require.NotNil(t, info, "input %v", in)
		assert.Equal(t, 2437.0, info.MHz, "input %v", in)
		assert.Equal(t, Band24GHz, info.Band, "input %v", in)
		assert.Equal(t, "6", info.Channel, "input %v", in)
		assert.True(t, info.IsStandardWifi, "input %v", in)
	}
}

func TestNormalize_InvalidInputs(t *testing.T) {
	for _, in := range []any{nil, "", "  ", "abc", 0, 0.0, true, []int{1}} {
		assert.Nil(t, Normalize(in, ""), "input %#v", in)
	}
}

func TestNormalize_5180(t *testing.T) {
	info := Normalize(5180, "")
	require.NotNil(t, info)

	assert.Equal(t, "36", info.Channel)
	assert.Equal(t, Band5GHz, info.Band)
	assert.InDelta(t, 5.18, info.GHz, 1e-9)
	assert.Equal(t, "5.180 GHz", info.Display())
	assert.Equal(t, "5180 MHz", info.DisplayMHz())
	assert.Equal(t, Width20MHz, info.ChannelWidth)
}

func TestNormalize_ExternalChannelWins(t *testing.T) {
	info := Normalize(2437000, "11")
	require.NotNil(t, info)

	assert.Equal(t, "11", info.Channel)
	assert.True(t, info.IsStandardWifi)
}

func TestNormalize_OffTableFrequency(t *testing.T) {
	info := Normalize(2439, "")
	require.NotNil(t, info)

	assert.Empty(t, info.Channel)
	assert.Empty(t, info.ChannelWidth)
	assert.False(t, info.IsStandardWifi)
	assert.Equal(t, Band24GHz, info.Band)
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		mhz  float64
		want string
	}{
		{2399, BandUnknown},
		{2400, Band24GHz},
		{2495, Band24GHz},
		{2496, BandUnknown},
		{5150, Band5GHz},
		{5850, Band5GHz},
		{5900, BandUnknown},
		{5925, Band6GHz},
		{7125, Band6GHz},
		{7200, BandUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.mhz), "mhz=%v", tt.mhz)
	}
}

func TestToMHz(t *testing.T) {
	assert.Equal(t, 5745.0, ToMHz(5.745))
	assert.Equal(t, 5745.0, ToMHz(5745))
	assert.Equal(t, 5745.0, ToMHz(5745000))
	assert.Equal(t, 5745.0, ToMHz(5745000000))
	assert.Equal(t, 999.0, ToMHz(999000000))
}

func TestChannelFor(t *testing.T) {
	tests := map[float64]string{
		2412: "1",
		2484: "14",
		5190: "38",
		5760: "151",
		5850: "165",
	}
	for mhz, want := range tests {
		got, ok := ChannelFor(mhz)
		require.True(t, ok, "mhz=%v", mhz)
		assert.Equal(t, want, got)
	}

	_, ok := ChannelFor(2412.5)
	assert.False(t, ok)
	_, ok = ChannelFor(5825)
	assert.False(t, ok)
}

func TestWidth(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"", ""},
		{"6", Width20MHz},
		{"6HT40+", Width40MHz},
		{"36HT80", Width80MHz},
		{"36VHT160", Width160MHz},
		{"36VHT", WidthVHT},
		{"149", Width20MHz},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Width(tt.label), "label=%q", tt.label)
	}
}

func TestBandOfDisplay(t *testing.T) {
	assert.Equal(t, Band24GHz, BandOfDisplay("2.437 GHz"))
	assert.Equal(t, Band5GHz, BandOfDisplay("5.180 GHz"))
	assert.Equal(t, BandUnknown, BandOfDisplay("garbage"))
	assert.Equal(t, BandUnknown, BandOfDisplay(""))
}

func TestDisplay_Nil(t *testing.T) {
	var info *Info
	assert.Equal(t, "Unknown", info.Display())
	assert.Equal(t, "Unknown", info.DisplayMHz())
}
