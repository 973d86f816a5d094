// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import (
	"reflect"
	"strings"
)

// keyOf turns a validator namespace such as "Config.Kismet.StatusTimeout"
// into the koanf key "kismet.status_timeout".
func keyOf(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if t.Kind() != reflect.Struct {
			keys = append(keys, strings.ToLower(p))
			continue
		}
		f, ok := t.FieldByName(p)
		if !ok {
			keys = append(keys, strings.ToLower(p))
			continue
		}
		keys = append(keys, f.Tag.Get("koanf"))
		t = f.Type
	}
	return strings.Join(keys, ".")
}
