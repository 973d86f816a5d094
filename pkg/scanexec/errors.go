// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package scanexec

import (
	"errors"
	"fmt"
)

// Sentinel errors for common CLI failures.
var (
	// ErrMissingAPIKey indicates that no Kismet API key was configured.
	ErrMissingAPIKey = errors.New("kismet API key is required")

	// ErrInvalidFilter indicates a filter value outside its accepted set.
	ErrInvalidFilter = errors.New("invalid filter value")

	// ErrConnectionFailed indicates the Kismet connection test failed.
	ErrConnectionFailed = errors.New("failed to connect to Kismet server")
)

// Error codes used by the CLI suggestion system.
const (
	CodeMissingAPIKey    = "MISSING_API_KEY"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeInvalidFilter    = "INVALID_FILTER"
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeExportFailed     = "EXPORT_FAILED"
	CodeScanFailure      = "SCAN_FAILURE"
)

// codedError wraps an error with an explicit error code.
type codedError struct {
	error
	code string
}

func (e *codedError) Error() string {
	return e.error.Error()
}

func (e *codedError) Unwrap() error {
	return e.error
}

func (e *codedError) Code() string {
	return e.code
}

// WithErrorCode wraps err with a specific CLI error code.
func WithErrorCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &codedError{error: err, code: code}
}

// ErrorCode resolves an error into a CLI error code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := coded.Code(); code != "" {
			return code
		}
	}

	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return CodeMissingAPIKey
	case errors.Is(err, ErrInvalidFilter):
		return CodeInvalidFilter
	case errors.Is(err, ErrConnectionFailed):
		return CodeConnectionFailed
	}

	return CodeScanFailure
}

// ExitCode maps errors to CLI exit codes. Usage problems exit with 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch ErrorCode(err) {
	case CodeMissingAPIKey,
		CodeInvalidConfig,
		CodeInvalidFilter:
		return 2
	default:
		return 1
	}
}

// Suggestions provides CLI hints for an error.
func Suggestions(err error) []string {
	if err == nil {
		return nil
	}

	switch ErrorCode(err) {
	case CodeMissingAPIKey:
		return []string{
			"Pass the key:               kismetcam scan --api-key <key>",
			"Or export it:               export KISMET_API_KEY=<key>",
		}
	case CodeInvalidConfig:
		return []string{
			"Check the config file:      kismetcam --config ~/.kismetcam/config.yaml",
			"Run help for options:       kismetcam scan --help",
		}
	case CodeInvalidFilter:
		return []string{
			"Categories:                 camera, networking, computing, iot",
			"Bands:                      2.4GHz, 5GHz, 6GHz",
			"Frequency range format:     --frequency-range 2.4-2.5",
		}
	case CodeConnectionFailed:
		return []string{
			"Check the server address:   kismetcam status --host http://localhost:2501",
			"Verify the API key has read access to the REST API",
		}
	case CodeExportFailed:
		return []string{
			"Use a .json, .csv or .yaml file name",
			"Check that the target directory is writable",
		}
	default:
		return []string{
			"Retry with verbose logs:    kismetcam scan --debug",
			"Enable progress output:     kismetcam scan --progress",
		}
	}
}

// NewInvalidFilterError annotates a rejected filter value with context.
func NewInvalidFilterError(name, value string) error {
	return WithErrorCode(fmt.Errorf("%w: %s %q", ErrInvalidFilter, name, value), CodeInvalidFilter)
}

// NewConnectionError annotates a failed connection test.
func NewConnectionError(host string, cause error) error {
	return WithErrorCode(fmt.Errorf("%w at %s: %w", ErrConnectionFailed, host, cause), CodeConnectionFailed)
}
