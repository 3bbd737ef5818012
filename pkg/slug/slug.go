// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

// Package slug generates URL slugs from category names.
//
// # Usage
//
// Slugs are used as human-readable identifiers for categories
// (e.g., "science-fiction", "বিজ্ঞান"). Unlike typical ASCII slug
// generators, this package preserves the Bengali Unicode block so that
// localized category names keep their script in URLs.
package slug

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches any character outside: word characters, the Bengali
	// block (U+0980–U+09FF), whitespace, and hyphens.
	disallowed = regexp.MustCompile(`[^\w\x{0980}-\x{09FF}\s-]`)
	// whitespace matches any run of whitespace characters.
	whitespace = regexp.MustCompile(`\s+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts a category name into a URL-safe slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC so visually identical Bengali sequences compare equal.
// 2. Converts to lowercase.
// 3. Strips characters outside {word chars, Bengali block, whitespace, hyphen}.
// 4. Replaces whitespace runs with single hyphens.
// 5. Collapses repeated hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Canonical composition keeps combining Bengali vowel signs stable.
	result := norm.NFC.String(s)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Drop punctuation and symbols, keeping Bengali text intact
	result = disallowed.ReplaceAllString(result, "")

	// 4. Hyphenate word boundaries
	result = whitespace.ReplaceAllString(result, "-")

	// 5. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}
