// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers, currently tag name
// normalization with Unicode support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxTagNameLength is the longest tag name accepted, in runes.
const MaxTagNameLength = 100

var (
	// tagInvalid matches anything but letters, marks, digits, hyphens and underscores.
	tagInvalid = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// NormalizeTagName converts user input to a canonical tag name.
// It applies NFKC, drops control and format characters, lowercases,
// replaces whitespace with hyphens and removes punctuation. Non-Latin
// letters are kept, so "中文 标签" becomes "中文-标签".
func NormalizeTagName(s string) string {
	t := transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.C)))
	result, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}

	result = strings.ToLower(strings.TrimSpace(result))
	result = strings.Join(strings.Fields(result), "-")
	result = tagInvalid.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if r := []rune(result); len(r) > MaxTagNameLength {
		result = strings.TrimRight(string(r[:MaxTagNameLength]), "-")
	}
	return result
}

// NormalizeTagNames normalizes names, dropping empty results and duplicates
// while keeping first-seen order.
func NormalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		n := NormalizeTagName(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// IsValidTagName reports whether s is already in canonical form.
func IsValidTagName(s string) bool {
	return s != "" && NormalizeTagName(s) == s
}
