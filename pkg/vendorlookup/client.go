// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package vendorlookup resolves hardware address prefixes through the
// macvendors.com REST API.
package vendorlookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public lookup endpoint.
const DefaultBaseURL = "https://api.macvendors.com"

// UserAgent identifies lookup requests.
const UserAgent = "KismetCameraDetector/1.0"

var (
	// ErrRateLimited means the service asked us to slow down (HTTP 429).
	ErrRateLimited = errors.New("vendor lookup rate limited")
	// ErrNotFound means the service has no vendor for the prefix.
	ErrNotFound = errors.New("vendor not found")
)

// Client talks to the lookup service.
type Client struct {
	http *resty.Client
}

// NewClient returns a Client for baseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", UserAgent)
	return &Client{http: r}
}

// Fetch returns the vendor registered for oui. The request is bounded by
// timeout as well as ctx.
func (c *Client) Fetch(ctx context.Context, oui string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("oui", oui).
		Get("/{oui}")
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", oui, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return strings.TrimSpace(resp.String()), nil
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusNotFound:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("lookup %s: unexpected status %s", oui, resp.Status())
	}
}

// OUI extracts the vendor prefix of a hardware address: the first three
// colon-separated groups, or the first six characters of an unseparated
// address. Addresses shorter than 8 characters have none.
func OUI(mac string) (string, bool) {
	if len(mac) < 8 {
		return "", false
	}
	clean := strings.ReplaceAll(strings.ToUpper(mac), "-", ":")
	if strings.Contains(clean, ":") {
		parts := strings.Split(clean, ":")
		return strings.Join(parts[:min(3, len(parts))], ":"), true
	}
	return clean[:6], true
}
