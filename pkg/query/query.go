// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

// Package query provides lenient parsing helpers for URL query parameters.
//
// Malformed values are ignored rather than reported; a bad optional filter
// never fails the whole request.
package query

import (
	"strconv"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings. Empty entries are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Float parses a float query value. The second return reports whether the
// value was present and numeric; non-numeric input is treated as absent.
func Float(val string) (float64, bool) {
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool reports whether the value is the literal string "true". Any other
// value, including absence, is false.
func Bool(val string) bool {
	return val == "true"
}
