// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package manufacturer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the catalog file at path every time it changes and passes
// the new catalog to onReload. A file that fails to load is reported and
// the previous catalog stays in use. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onReload func(*Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	// Editors often replace files instead of writing them in place, so the
	// directory is watched rather than the file.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	logger := log.With().Str("component", "catalog-watch").Str("path", target).Logger()
	logger.Debug().Msg("Watching manufacturer catalog")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cat, err := LoadFile(target)
			if err != nil {
				logger.Warn().Err(err).Msg("Catalog reload failed, keeping previous catalog")
				continue
			}
			logger.Info().Int("prefixes", cat.Len()).Msg("Manufacturer catalog reloaded")
			onReload(cat)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Catalog watcher error")
		}
	}
}
