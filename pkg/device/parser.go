// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package device

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/kismetcam/kismetcam/pkg/frequency"
	"github.com/kismetcam/kismetcam/pkg/manufacturer"
)

// Kismet field names. They contain dots, so they are escaped before being
// used as gjson paths.
const (
	fieldKey        = "kismet.device.base.key"
	fieldMAC        = "kismet.device.base.macaddr"
	fieldCommonName = "kismet.device.base.commonname"
	fieldName       = "kismet.device.base.name"
	fieldType       = "kismet.device.base.type"
	fieldManuf      = "kismet.device.base.manuf"
	fieldSignal     = "kismet.device.base.signal"
	fieldLastSignal = "kismet.common.signal.last_signal"
	fieldChannel    = "kismet.device.base.channel"
	fieldLastTime   = "kismet.device.base.last_time"
	fieldFrequency  = "kismet.device.base.frequency"
	fieldIP         = "kismet.device.base.ip"
	fieldTypeSet    = "kismet.device.base.basic_type_set"

	fieldPacketsTotal = "kismet.device.base.packets.total"
	fieldPacketsRX    = "kismet.device.base.packets.rx_total"
	fieldPacketsTX    = "kismet.device.base.packets.tx_total"
	fieldPacketsData  = "kismet.device.base.packets.data"
	fieldPacketsLLC   = "kismet.device.base.packets.llc"
)

// path joins field names into a gjson path, escaping the dots inside each.
func path(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = strings.ReplaceAll(f, ".", `\.`)
	}
	return strings.Join(escaped, ".")
}

// Parser turns raw inventory records into Devices. It never performs network
// calls: manufacturers are identified from the catalog and the vendor string
// reported by Kismet only.
type Parser struct {
	resolver *manufacturer.Resolver
}

// NewParser returns a Parser identifying manufacturers with resolver.
func NewParser(resolver *manufacturer.Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse maps one record. Missing or mistyped fields degrade to zero values;
// a record that is not a JSON object yields an empty Device.
func (p *Parser) Parse(raw []byte) Device {
	rec := gjson.ParseBytes(raw)
	d := Device{Raw: json.RawMessage(raw)}
	if !rec.IsObject() {
		return d
	}

	d.Key = str(rec, path(fieldKey))
	d.MAC = str(rec, path(fieldMAC))
	d.Name = str(rec, path(fieldCommonName))
	if d.Name == "" {
		d.Name = str(rec, path(fieldName))
	}
	d.Type = str(rec, path(fieldType))
	d.Vendor = str(rec, path(fieldManuf))
	d.Channel = str(rec, path(fieldChannel))
	d.LastSeen = cast.ToInt64(rec.Get(path(fieldLastTime)).Value())

	if sig := rec.Get(path(fieldSignal, fieldLastSignal)); sig.Exists() {
		if v, err := cast.ToIntE(sig.Value()); err == nil {
			d.Signal = &v
		}
	}

	if p.resolver != nil {
		d.Manufacturer = p.resolver.Identify(d.MAC, d.Vendor)
	}
	d.Frequency = frequency.Normalize(rec.Get(path(fieldFrequency)).Value(), d.Channel)

	if ips := rec.Get(path(fieldIP)); ips.IsArray() {
		for _, entry := range ips.Array() {
			if addr := entry.Get("address"); addr.Type == gjson.String && addr.Str != "" {
				d.IPAddresses = append(d.IPAddresses, addr.Str)
			}
		}
	}

	if types := rec.Get(path(fieldTypeSet)); types.IsArray() {
		for _, v := range types.Array() {
			if v.Type == gjson.String {
				d.TypeSet = append(d.TypeSet, v.Str)
			}
		}
	}

	return d
}

// ParseAll maps every record, preserving order.
func (p *Parser) ParseAll(records []json.RawMessage) []Device {
	devices := make([]Device, 0, len(records))
	for _, r := range records {
		devices = append(devices, p.Parse(r))
	}
	return devices
}

// CountersFrom reads the packet counters of a raw record. Anything missing
// or non-numeric counts as zero.
func CountersFrom(raw []byte) PacketCounters {
	if len(raw) == 0 {
		return PacketCounters{}
	}
	values := gjson.GetManyBytes(raw,
		path(fieldPacketsTotal),
		path(fieldPacketsRX),
		path(fieldPacketsTX),
		path(fieldPacketsData),
		path(fieldPacketsLLC),
	)
	return PacketCounters{
		Total: cast.ToInt64(values[0].Value()),
		RX:    cast.ToInt64(values[1].Value()),
		TX:    cast.ToInt64(values[2].Value()),
		Data:  cast.ToInt64(values[3].Value()),
		LLC:   cast.ToInt64(values[4].Value()),
	}
}

// str returns the value at p when it is a JSON string.
func str(rec gjson.Result, p string) string {
	if v := rec.Get(p); v.Type == gjson.String {
		return v.Str
	}
	return ""
}
