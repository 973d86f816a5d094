// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Log          LogConfig          `description:"Logging configuration" koanf:"log"`
	Kismet       KismetConfig       `description:"Kismet server connection" koanf:"kismet"`
	Lookup       LookupConfig       `description:"External MAC vendor lookup" koanf:"lookup"`
	Probe        ProbeConfig        `description:"Camera port probing" koanf:"probe"`
	Manufacturer ManufacturerConfig `description:"Manufacturer catalog" koanf:"manufacturer"`
	Watch        WatchConfig        `description:"Repeated scanning" koanf:"watch"`
	Metrics      MetricsConfig      `description:"Prometheus endpoint" koanf:"metrics"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level: trace|debug|info|warn|error" koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `description:"Log format: text|json" koanf:"format" validate:"oneof=text json"`
}

// KismetConfig locates the Kismet REST API.
type KismetConfig struct {
	Host          string        `description:"Kismet base URL" koanf:"host" validate:"required,url"`
	APIKey        string        `description:"Kismet API key" koanf:"api_key"`
	Timeout       time.Duration `description:"Device query timeout" koanf:"timeout" validate:"gt=0"`
	StatusTimeout time.Duration `description:"Status query timeout" koanf:"status_timeout" validate:"gt=0"`
}

// LookupConfig configures the external MAC vendor service.
type LookupConfig struct {
	Enabled      bool          `description:"Query the vendor service for unknown manufacturers" koanf:"enabled"`
	BaseURL      string        `description:"Vendor service base URL" koanf:"base_url" validate:"required,url"`
	Timeout      time.Duration `description:"First attempt timeout" koanf:"timeout" validate:"gt=0"`
	RetryTimeout time.Duration `description:"Retry timeout after rate limiting" koanf:"retry_timeout" validate:"gt=0"`
	RetryDelay   time.Duration `description:"Wait before retrying a rate limited lookup" koanf:"retry_delay" validate:"gte=0"`
	Rate         float64       `description:"Maximum lookups per second" koanf:"rate" validate:"gt=0"`
}

// ProbeConfig configures camera port probing.
type ProbeConfig struct {
	Enabled bool          `description:"Probe camera ports of candidates" koanf:"enabled"`
	Timeout time.Duration `description:"Per connection timeout" koanf:"timeout" validate:"gt=0"`
}

// ManufacturerConfig points at an optional catalog merged over the built-in one.
type ManufacturerConfig struct {
	Catalog string `description:"External OUI catalog (YAML)" koanf:"catalog"`
}

// WatchConfig enables repeated scans.
type WatchConfig struct {
	Interval time.Duration `description:"Scan interval, 0 scans once" koanf:"interval" validate:"gte=0"`
}

// MetricsConfig exposes Prometheus metrics in watch mode.
type MetricsConfig struct {
	Addr string `description:"Listen address for /metrics, empty disables" koanf:"addr" validate:"omitempty,hostname_port"`
}
