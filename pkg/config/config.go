// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package config loads layered configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/kismetcam/kismetcam/pkg/paths"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	sources       []string
	mu            sync.RWMutex
}

// NewManager creates an empty Manager. Call Load before Get.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
		currentConfig: DefaultConfig(),
	}
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Kismet: KismetConfig{
			Host:          "http://localhost:2501",
			Timeout:       30 * time.Second,
			StatusTimeout: 10 * time.Second,
		},
		Lookup: LookupConfig{
			BaseURL:      "https://api.macvendors.com",
			Timeout:      10 * time.Second,
			RetryTimeout: 5 * time.Second,
			RetryDelay:   time.Second,
			Rate:         1,
		},
		Probe: ProbeConfig{
			Enabled: true,
			Timeout: time.Second,
		},
	}
}

// DefaultConfigPath returns ~/.kismetcam/config.yaml, or the kismetcam
// directory under XDG_CONFIG_HOME when that is set.
func DefaultConfigPath() string {
	return paths.ConfigFile()
}

// Load reads the standard sources. An empty configPath falls back to
// DefaultConfigPath.
func (m *Manager) Load(flags *pflag.FlagSet, configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	debug := false
	if flags != nil {
		debug, _ = flags.GetBool("debug")
	}
	return m.LoadWithSources(DefaultSources(configPath, flags, debug))
}

// LoadWithSources loads sources in priority order into a fresh koanf
// instance, then unmarshals and validates the result. The previous
// configuration is kept when any step fails.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	sorted := slices.Clone(sources)
	slices.SortStableFunc(sorted, func(a, b ConfigSource) int { return a.Priority() - b.Priority() })

	k := koanf.New(".")
	names := make([]string, 0, len(sorted))
	for _, src := range sorted {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
		names = append(names, src.Name())
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	postProcess(&cfg)
	if err := Validate(cfg); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.koanfInstance = k
	m.currentConfig = cfg
	m.sources = names
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// Sources names the sources of the last successful load in load order.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sources)
}

// Koanf exposes the merged key space of the last load.
func (m *Manager) Koanf() *koanf.Koanf {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance
}

func postProcess(cfg *Config) {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Kismet.Host = strings.TrimRight(strings.TrimSpace(cfg.Kismet.Host), "/")
	cfg.Kismet.APIKey = strings.TrimSpace(cfg.Kismet.APIKey)
}

// ValidationError lists the invalid fields of a configuration.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Fields, "; ")
}

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", keyOf(fe.Namespace()), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}

// DefaultConfigAsMap flattens DefaultConfig for koanf's confmap provider.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,

		"kismet.host":           def.Kismet.Host,
		"kismet.api_key":        def.Kismet.APIKey,
		"kismet.timeout":        def.Kismet.Timeout,
		"kismet.status_timeout": def.Kismet.StatusTimeout,

		"lookup.enabled":       def.Lookup.Enabled,
		"lookup.base_url":      def.Lookup.BaseURL,
		"lookup.timeout":       def.Lookup.Timeout,
		"lookup.retry_timeout": def.Lookup.RetryTimeout,
		"lookup.retry_delay":   def.Lookup.RetryDelay,
		"lookup.rate":          def.Lookup.Rate,

		"probe.enabled": def.Probe.Enabled,
		"probe.timeout": def.Probe.Timeout,

		"manufacturer.catalog": def.Manufacturer.Catalog,
		"watch.interval":       def.Watch.Interval,
		"metrics.addr":         def.Metrics.Addr,
	}
}

// BindFlags defines the global flags that feed configuration.
func BindFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("catalog", "", "External OUI catalog (YAML) merged over the built-in one")
}
