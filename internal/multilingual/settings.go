// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package multilingual implements content-language tagging: the enabled
// content and interface languages, the reserved locale tags, the topic
// creation policy, listing filters and on-demand locale bundles.
package multilingual

import "slices"

// RequireMode selects when a topic must carry a content-language tag.
type RequireMode string

// Require modes
const (
	RequireNo       RequireMode = "no"
	RequireYes      RequireMode = "yes"
	RequireNonStaff RequireMode = "non-staff"
)

// Valid reports whether m is a known mode.
func (m RequireMode) Valid() bool {
	return m == RequireNo || m == RequireYes || m == RequireNonStaff
}

// Guest language switcher placements
const (
	SwitcherOff    = "off"
	SwitcherHeader = "header"
)

// Settings is a snapshot of the site settings consumed by this package.
type Settings struct {
	Enabled                   bool        `json:"multilingual_enabled"`
	ContentLanguagesEnabled   bool        `json:"multilingual_content_languages_enabled"`
	ContentLanguages          []string    `json:"multilingual_content_languages"`
	InterfaceLanguages        []string    `json:"multilingual_interface_languages"`
	RequireContentLanguageTag RequireMode `json:"multilingual_require_content_language_tag"`
	TopicFilteringEnabled     bool        `json:"multilingual_topic_filtering_enabled"`
	GuestLanguageSwitcher     string      `json:"multilingual_guest_language_switcher"`
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	s.ContentLanguages = slices.Clone(s.ContentLanguages)
	s.InterfaceLanguages = slices.Clone(s.InterfaceLanguages)
	return s
}

// SettingsSource yields the current settings. Implementations must be safe
// for concurrent use and return values the caller may not mutate in place.
type SettingsSource interface {
	Current() Settings
}

// StaticSettings is a SettingsSource that never changes.
type StaticSettings Settings

// Current returns a copy of the settings.
func (s StaticSettings) Current() Settings {
	return Settings(s).Clone()
}
