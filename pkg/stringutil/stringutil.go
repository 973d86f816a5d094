// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package stringutil holds small helpers for fitting device text into
// table cells.
package stringutil

import (
	"strings"
	"unicode/utf8"
)

// Oneline collapses s onto a single line and trims surrounding space.
func Oneline(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}

// Ellipsis shortens s to at most maxRunes runes, ending it with "..." when
// anything was cut. With maxRunes of 3 or less there is no room for the
// marker and s is simply cut.
func Ellipsis(s string, maxRunes int) string {
	s = Oneline(s)
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	if maxRunes <= 3 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-3]) + "..."
}
