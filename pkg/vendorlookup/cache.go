// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package vendorlookup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/kismetcam/kismetcam/pkg/metrics"
)

// Options tune a Cache.
type Options struct {
	Timeout      time.Duration // first attempt
	RetryTimeout time.Duration // attempt after a rate limit
	RetryDelay   time.Duration // pause before retrying
	Rate         float64       // requests per second, 0 for unlimited
}

// DefaultOptions mirror the service's published limits.
func DefaultOptions() Options {
	return Options{
		Timeout:      10 * time.Second,
		RetryTimeout: 5 * time.Second,
		RetryDelay:   time.Second,
		Rate:         1,
	}
}

type fetcher interface {
	Fetch(ctx context.Context, oui string, timeout time.Duration) (string, error)
}

// Cache memoizes lookups per prefix for one scan cycle, including misses.
// It is safe for concurrent use.
type Cache struct {
	client  fetcher
	opts    Options
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	vendor string
	ok     bool
}

// NewCache wraps client. m may be nil.
func NewCache(client *Client, opts Options, m *metrics.Metrics) *Cache {
	return newCache(client, opts, m)
}

func newCache(client fetcher, opts Options, m *metrics.Metrics) *Cache {
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	return &Cache{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		metrics: m,
		logger:  log.With().Str("component", "vendorlookup").Logger(),
		entries: make(map[string]entry),
	}
}

// Lookup returns the vendor of mac's prefix. Every failure is reported as a
// miss and remembered.
func (c *Cache) Lookup(ctx context.Context, mac string) (string, bool) {
	oui, ok := OUI(mac)
	if !ok {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[oui]; ok {
		c.metrics.Lookup(metrics.ResultCached)
		return e.vendor, e.ok
	}

	vendor, err := c.fetch(ctx, oui, c.opts.Timeout)
	if errors.Is(err, ErrRateLimited) {
		c.metrics.Lookup(metrics.ResultRateLimited)
		c.logger.Warn().Str("oui", oui).Msg("MAC vendor API rate limited")
		if !sleep(ctx, c.opts.RetryDelay) {
			return "", false
		}
		vendor, err = c.fetch(ctx, oui, c.opts.RetryTimeout)
	}

	if err != nil {
		result := metrics.ResultMiss
		if !errors.Is(err, ErrNotFound) {
			result = metrics.ResultError
			c.logger.Debug().Err(err).Str("oui", oui).Msg("Failed to lookup MAC vendor")
		}
		c.metrics.Lookup(result)
		c.entries[oui] = entry{}
		return "", false
	}

	c.metrics.Lookup(metrics.ResultHit)
	c.logger.Debug().Str("oui", oui).Str("vendor", vendor).Msg("MAC vendor lookup")
	c.entries[oui] = entry{vendor: vendor, ok: vendor != ""}
	return vendor, vendor != ""
}

// Len reports how many prefixes have been looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fetch(ctx context.Context, oui string, timeout time.Duration) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.client.Fetch(ctx, oui, timeout)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
