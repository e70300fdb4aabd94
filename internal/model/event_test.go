// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestEventCategoriesUnique(t *testing.T) {
	categories := []string{
		EventCategoryTopic,
		EventCategoryUser,
		EventCategoryLocale,
		EventCategorySettings,
		EventCategorySystem,
		EventCategoryCache,
	}

	seen := make(map[string]bool)
	for _, cat := range categories {
		if seen[cat] {
			t.Errorf("duplicate category: %q", cat)
		}
		seen[cat] = true
	}
}

func TestEventLevelsMatchLogging(t *testing.T) {
	// The event log handler writes these exact strings.
	if EventLevelWarning != "warning" || EventLevelError != "error" {
		t.Errorf("unexpected level values %q, %q", EventLevelWarning, EventLevelError)
	}
}
