// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variables read by EnvSource.
const EnvPrefix = "KISMETCAM_"

// ConfigSource represents a configuration source that can load values into koanf.
// Sources are loaded in priority order (lowest first), with higher priority sources
// overriding lower priority values.
//
// Built-in sources and their priorities:
//   - DefaultSource (10): Hardcoded default values
//   - FileSource (20): Config file (e.g., ~/.kismetcam/config.yaml)
//   - LegacyEnvSource (25): KISMET_API_KEY and KISMET_HOST
//   - EnvSource (30): Environment variables (KISMETCAM_*)
//   - FlagSource (40): Command-line flags
type ConfigSource interface {
	// Name returns a human-readable name for this source (for logging/debugging)
	Name() string

	// Priority returns the load priority. Lower values are loaded first,
	// higher values override lower ones.
	Priority() int

	// Load loads configuration values into the provided koanf instance.
	Load(k *koanf.Koanf) error
}

// DefaultSource provides hardcoded default configuration values.
type DefaultSource struct{}

func (s *DefaultSource) Name() string  { return "defaults" }
func (s *DefaultSource) Priority() int { return 10 }

func (s *DefaultSource) Load(k *koanf.Koanf) error {
	if err := k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("error loading defaults: %w", err)
	}
	return nil
}

// FileSource loads configuration from a YAML file.
type FileSource struct {
	Path string // Path to config file (optional, silently skipped if empty or missing)
}

func (s *FileSource) Name() string  { return "file:" + s.Path }
func (s *FileSource) Priority() int { return 20 }

func (s *FileSource) Load(k *koanf.Koanf) error {
	if s.Path == "" {
		return nil
	}

	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error checking config file %s: %w", s.Path, err)
	}

	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return fmt.Errorf("error loading config file %s: %w", s.Path, err)
	}
	return nil
}

// legacyEnv maps the unprefixed variables of earlier releases to keys.
var legacyEnv = map[string]string{
	"KISMET_API_KEY": "kismet.api_key",
	"KISMET_HOST":    "kismet.host",
}

// LegacyEnvSource reads KISMET_API_KEY and KISMET_HOST.
type LegacyEnvSource struct{}

func (s *LegacyEnvSource) Name() string  { return "legacy-env" }
func (s *LegacyEnvSource) Priority() int { return 25 }

func (s *LegacyEnvSource) Load(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("KISMET_", ".", func(key string) string {
		return legacyEnv[key]
	}), nil); err != nil {
		return fmt.Errorf("error loading legacy environment variables: %w", err)
	}
	return nil
}

// EnvSource loads configuration from environment variables. The first
// underscore after the prefix separates section from key:
//
//	KISMETCAM_LOG_LEVEL      -> log.level
//	KISMETCAM_KISMET_API_KEY -> kismet.api_key
type EnvSource struct {
	Prefix string // Environment variable prefix (default: "KISMETCAM_")
}

func (s *EnvSource) Name() string  { return "env" }
func (s *EnvSource) Priority() int { return 30 }

func (s *EnvSource) Load(k *koanf.Koanf) error {
	prefix := s.Prefix
	if prefix == "" {
		prefix = EnvPrefix
	}

	if err := k.Load(env.Provider(prefix, ".", func(key string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(key, prefix)), "_", ".", 1)
	}), nil); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}
	return nil
}

// flagKeys maps command-line flag names to configuration keys. Flags not
// listed here are command options, not configuration.
var flagKeys = map[string]string{
	"host":         "kismet.host",
	"api-key":      "kismet.api_key",
	"use-mac-api":  "lookup.enabled",
	"no-probe":     "probe.enabled",
	"catalog":      "manufacturer.catalog",
	"watch":        "watch.interval",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
}

// invertedFlags hold the negation of their key.
var invertedFlags = map[string]bool{
	"no-probe": true,
}

// FlagSource loads configuration from command-line flags.
type FlagSource struct {
	Flags *pflag.FlagSet
	Debug bool // If true, set log.level to "debug"
}

func (s *FlagSource) Name() string  { return "flags" }
func (s *FlagSource) Priority() int { return 40 }

func (s *FlagSource) Load(k *koanf.Koanf) error {
	if s.Flags != nil {
		provider := posflag.ProviderWithFlag(s.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			val := posflag.FlagVal(s.Flags, f)
			if invertedFlags[f.Name] {
				if b, isBool := val.(bool); isBool {
					val = !b
				}
			}
			return key, val
		})
		if err := k.Load(provider, nil); err != nil {
			return fmt.Errorf("error loading command-line flags: %w", err)
		}
	}

	if s.Debug {
		_ = k.Set("log.level", "debug")
	}

	return nil
}

// DefaultSources returns the standard configuration sources.
// Order: defaults -> file -> legacy env -> env -> flags
func DefaultSources(configPath string, flags *pflag.FlagSet, debug bool) []ConfigSource {
	return []ConfigSource{
		&DefaultSource{},
		&FileSource{Path: configPath},
		&LegacyEnvSource{},
		&EnvSource{Prefix: EnvPrefix},
		&FlagSource{Flags: flags, Debug: debug},
	}
}
