// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package kismet is a small client for the Kismet REST API.
package kismet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// UserAgent identifies requests to Kismet.
const UserAgent = "KismetCameraDetector/1.0"

// fallbackWindow is how far back the fallback device query reaches.
const fallbackWindow = 300 * time.Second

// Config configures a Client.
type Config struct {
	Host          string
	APIKey        string
	Timeout       time.Duration
	StatusTimeout time.Duration
}

// Client reads devices, status and capture sources from a Kismet server.
type Client struct {
	http   *resty.Client
	cfg    Config
	now    func() time.Time
	logger zerolog.Logger
}

// Status is the subset of /system/status.json the CLI reports.
type Status struct {
	Version    string `json:"version"`
	ServerName string `json:"server_name,omitempty"`
	StartTime  int64  `json:"start_time,omitempty"`
	Devices    int64  `json:"devices,omitempty"`
}

// Source is one Kismet capture source.
type Source struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Interface string `json:"interface"`
	Driver    string `json:"driver"`
	Hardware  string `json:"hardware,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Hopping   bool   `json:"hopping"`
	Running   bool   `json:"running"`
}

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("kismet %s: HTTP %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
}

// NewClient returns a Client for cfg.Host.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = 10 * time.Second
	}
	r := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Host, "/")).
		SetQueryParam("KISMET", cfg.APIKey).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   r,
		cfg:    cfg,
		now:    time.Now,
		logger: log.With().Str("component", "kismet").Str("host", cfg.Host).Logger(),
	}
}

func (c *Client) get(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.http.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("kismet %s: %w", endpoint, err)
	}
	if resp.IsError() {
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// Status fetches the server status. It doubles as the connection test.
func (c *Client) Status(ctx context.Context) (Status, error) {
	body, err := c.get(ctx, "/system/status.json", c.cfg.StatusTimeout)
	if err != nil {
		return Status{}, err
	}
	if !gjson.ValidBytes(body) {
		return Status{}, errors.New("kismet status: response is not JSON")
	}

	values := gjson.GetManyBytes(body,
		`kismet\.system\.version`,
		`kismet\.system\.server_name`,
		`kismet\.system\.timestamp\.start_sec`,
		`kismet\.system\.devices\.count`,
	)
	c.logger.Info().Msg("Successfully connected to Kismet server")
	return Status{
		Version:    values[0].String(),
		ServerName: values[1].String(),
		StartTime:  values[2].Int(),
		Devices:    values[3].Int(),
	}, nil
}

// Devices returns raw device records. With since > 0 only devices active
// after that Unix time are returned. A server without the requested view
// is queried for the devices of the last five minutes instead.
func (c *Client) Devices(ctx context.Context, since int64) ([]json.RawMessage, error) {
	endpoint := "/devices/views/all/devices.json"
	if since > 0 {
		endpoint = fmt.Sprintf("/devices/last-time/%d/devices.json", since)
	}

	records, err := c.devices(ctx, endpoint)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		c.logger.Warn().Str("endpoint", endpoint).Msg("Endpoint not found, trying alternative method")
		fallback := fmt.Sprintf("/devices/last-time/%d/devices.json", c.now().Add(-fallbackWindow).Unix())
		records, err = c.devices(ctx, fallback)
		if err != nil {
			return nil, fmt.Errorf("fallback device query: %w", err)
		}
		c.logger.Info().Int("devices", len(records)).Msg("Retrieved devices using fallback method")
		return records, nil
	}
	if err != nil {
		return nil, err
	}
	c.logger.Info().Int("devices", len(records)).Msg("Retrieved devices from Kismet")
	return records, nil
}

func (c *Client) devices(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	body, err := c.get(ctx, endpoint, c.cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return rawArray(endpoint, body)
}

// Sources lists the capture sources configured on the server.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	endpoint := "/datasource/all_sources.json"
	body, err := c.get(ctx, endpoint, c.cfg.StatusTimeout)
	if err != nil {
		return nil, err
	}
	records, err := rawArray(endpoint, body)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(records))
	for _, raw := range records {
		rec := gjson.ParseBytes(raw)
		sources = append(sources, Source{
			UUID:      rec.Get(`kismet\.datasource\.uuid`).String(),
			Name:      rec.Get(`kismet\.datasource\.name`).String(),
			Interface: rec.Get(`kismet\.datasource\.interface`).String(),
			Driver:    rec.Get(`kismet\.datasource\.type_driver.kismet\.datasource\.driver\.type`).String(),
			Hardware:  rec.Get(`kismet\.datasource\.hardware`).String(),
			Channel:   rec.Get(`kismet\.datasource\.channel`).String(),
			Hopping:   rec.Get(`kismet\.datasource\.hopping`).Bool(),
			Running:   rec.Get(`kismet\.datasource\.running`).Bool(),
		})
	}
	return sources, nil
}

func rawArray(endpoint string, body []byte) ([]json.RawMessage, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("kismet %s: response is not JSON", endpoint)
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("kismet %s: expected a JSON array", endpoint)
	}

	items := result.Array()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item.Raw))
	}
	return out, nil
}
