// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"github.com/olegiv/ocms-multilingual/internal/locale"
)

// Language is one enabled locale as exposed to clients.
type Language struct {
	Locale     string `json:"locale"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
	TagName    string `json:"tagName,omitempty"`
}

// ContentLanguage derives the enabled content languages from the current
// settings and the locale catalog. Nothing is cached: every call reads the
// settings again.
type ContentLanguage struct {
	catalog  locale.Catalog
	settings SettingsSource
	tags     *TagTable
}

// NewContentLanguage creates a ContentLanguage view.
func NewContentLanguage(catalog locale.Catalog, settings SettingsSource, tags *TagTable) *ContentLanguage {
	return &ContentLanguage{catalog: catalog, settings: settings, tags: tags}
}

// List returns the configured content languages in configuration order.
// Codes that are not registered or have no tag mapping are skipped, as are
// repeated codes.
func (c *ContentLanguage) List() []Language {
	return c.list(c.settings.Current())
}

func (c *ContentLanguage) list(s Settings) []Language {
	out := make([]Language, 0, len(s.ContentLanguages))
	seen := make(map[string]bool, len(s.ContentLanguages))
	for _, code := range s.ContentLanguages {
		if seen[code] {
			continue
		}
		loc, ok := c.catalog.Get(code)
		if !ok {
			continue
		}
		tagName, ok := c.tags.TagNameFor(code)
		if !ok {
			continue
		}
		seen[code] = true
		out = append(out, Language{
			Locale:     loc.Code,
			Name:       loc.Name,
			NativeName: loc.NativeName,
			TagName:    tagName,
		})
	}
	return out
}

// Enabled reports whether content languages are switched on and at least one
// configured language survives filtering.
func (c *ContentLanguage) Enabled() bool {
	s := c.settings.Current()
	if !s.Enabled || !s.ContentLanguagesEnabled {
		return false
	}
	return len(c.list(s)) > 0
}

// IsEnabled reports whether code is among the listed content languages.
func (c *ContentLanguage) IsEnabled(code string) bool {
	for _, l := range c.List() {
		if l.Locale == code {
			return true
		}
	}
	return false
}

// Codes returns the locale codes of List.
func (c *ContentLanguage) Codes() []string {
	langs := c.List()
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = l.Locale
	}
	return out
}

// InterfaceLanguage lists the locales offered as user interface languages.
type InterfaceLanguage struct {
	catalog  locale.Catalog
	settings SettingsSource
}

// NewInterfaceLanguage creates an InterfaceLanguage view.
func NewInterfaceLanguage(catalog locale.Catalog, settings SettingsSource) *InterfaceLanguage {
	return &InterfaceLanguage{catalog: catalog, settings: settings}
}

// List returns the configured interface languages, or every registered
// locale when none are configured.
func (i *InterfaceLanguage) List() []Language {
	s := i.settings.Current()
	if len(s.InterfaceLanguages) == 0 {
		all := i.catalog.List()
		out := make([]Language, len(all))
		for idx, loc := range all {
			out[idx] = Language{Locale: loc.Code, Name: loc.Name, NativeName: loc.NativeName}
		}
		return out
	}

	out := make([]Language, 0, len(s.InterfaceLanguages))
	seen := make(map[string]bool, len(s.InterfaceLanguages))
	for _, code := range s.InterfaceLanguages {
		loc, ok := i.catalog.Get(code)
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, Language{Locale: loc.Code, Name: loc.Name, NativeName: loc.NativeName})
	}
	return out
}

// Codes returns the locale codes of List.
func (i *InterfaceLanguage) Codes() []string {
	langs := i.List()
	out := make([]string, len(langs))
	for idx, l := range langs {
		out[idx] = l.Locale
	}
	return out
}
