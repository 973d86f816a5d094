// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package appctx carries shared application state on a context.
package appctx

import (
	"context"

	"github.com/kismetcam/kismetcam/pkg/config"
)

type key string

const configKey key = "kismetcam.config.manager"

// WithConfig stores the shared config manager on context.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey, manager)
}

// Config retrieves the shared config manager from context.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(configKey).(*config.Manager)
	return mgr, ok && mgr != nil
}

// Settings returns the loaded configuration, or the defaults when no
// manager is attached.
func Settings(ctx context.Context) config.Config {
	if mgr, ok := Config(ctx); ok {
		return mgr.Get()
	}
	return config.DefaultConfig()
}
