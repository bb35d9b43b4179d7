// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly blog slugs from post titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// separators matches every run of characters outside [a-z0-9].
var separators = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lowercases s, collapses each run of non-alphanumeric characters
// into a single hyphen and trims hyphens from both ends.
// Example: "Hello, World! 2.0" → "hello-world-2-0"
func Generate(s string) string {
	result := separators.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(result, "-")
}

// WithSuffix returns base with a numeric suffix, used when a generated
// slug is already taken. n <= 1 returns base unchanged.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	if base == "" {
		return "post-" + strconv.Itoa(n)
	}
	return base + "-" + strconv.Itoa(n)
}
