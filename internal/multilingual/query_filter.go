// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"

	"github.com/olegiv/ocms-multilingual/internal/store"
)

// QueryFilter narrows topic listings to the content languages a reader wants.
type QueryFilter struct {
	settings    SettingsSource
	languages   *ContentLanguage
	tags        *ContentTags
	preferences *Preferences
}

// NewQueryFilter creates a QueryFilter.
func NewQueryFilter(settings SettingsSource, languages *ContentLanguage, tags *ContentTags, preferences *Preferences) *QueryFilter {
	return &QueryFilter{settings: settings, languages: languages, tags: tags, preferences: preferences}
}

// Apply returns query restricted to topics tagged with at least one of the
// effective locales. Explicit codes win over the actor's stored preference;
// an empty explicit list falls back to it. Codes that are not enabled are
// ignored. With no effective locale the query is returned unchanged.
func (f *QueryFilter) Apply(ctx context.Context, query store.TopicQuery, actor Actor, explicit []string) (store.TopicQuery, error) {
	s := f.settings.Current()
	if !s.TopicFilteringEnabled || !f.languages.Enabled() {
		return query, nil
	}

	locales := f.preferences.Prune(explicit)
	if len(explicit) == 0 {
		var userID int64
		if actor != nil {
			userID = actor.UserID()
		}
		stored, err := f.preferences.ContentLanguages(ctx, userID)
		if err != nil {
			return query, err
		}
		locales = stored
	}

	names := make([]string, 0, len(locales))
	for _, code := range locales {
		if name, ok := f.tags.TagNameFor(code); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return query, nil
	}

	return query.WithAnyTag(names...), nil
}
