// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"github.com/olegiv/ocms-multilingual/internal/locale"
)

// Config holds the collaborators of a Service.
type Config struct {
	Catalog  locale.Catalog
	Settings SettingsSource
	Tags     *TagTable
	Fields   CustomFieldReader
	Loader   LoaderConfig
}

// Service groups the content-language components built over one settings
// source and tag table.
type Service struct {
	Settings           SettingsSource
	ContentLanguages   *ContentLanguage
	InterfaceLanguages *InterfaceLanguage
	ContentTags        *ContentTags
	Policy             *Policy
	Preferences        *Preferences
	QueryFilter        *QueryFilter
	Loader             *Loader
}

// New wires a Service.
func New(cfg Config) *Service {
	languages := NewContentLanguage(cfg.Catalog, cfg.Settings, cfg.Tags)
	tags := NewContentTags(languages, cfg.Tags)
	prefs := NewPreferences(cfg.Fields, languages)

	loaderCfg := cfg.Loader
	if loaderCfg.Catalog == nil {
		loaderCfg.Catalog = cfg.Catalog
	}

	return &Service{
		Settings:           cfg.Settings,
		ContentLanguages:   languages,
		InterfaceLanguages: NewInterfaceLanguage(cfg.Catalog, cfg.Settings),
		ContentTags:        tags,
		Policy:             NewPolicy(languages, cfg.Settings),
		Preferences:        prefs,
		QueryFilter:        NewQueryFilter(cfg.Settings, languages, tags, prefs),
		Loader:             NewLoader(loaderCfg),
	}
}
