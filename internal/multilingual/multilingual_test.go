// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"database/sql"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/testutil"
)

func defaultSettings() Settings {
	return Settings{
		Enabled:                   true,
		ContentLanguagesEnabled:   true,
		ContentLanguages:          []string{"en", "zh_CN"},
		RequireContentLanguageTag: RequireNo,
		TopicFilteringEnabled:     true,
		GuestLanguageSwitcher:     SwitcherOff,
	}
}

// fakeFields is an in-memory CustomFieldReader keyed by user ID.
type fakeFields struct {
	values map[int64]string
	err    error
}

func (f *fakeFields) GetUserCustomField(_ context.Context, userID int64, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if name != ContentLanguagesField {
		return "", sql.ErrNoRows
	}
	v, ok := f.values[userID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return v, nil
}

// fakeTopicTags is an in-memory TopicTagStore.
type fakeTopicTags struct {
	tags     map[int64][]string
	replaces int
}

func (f *fakeTopicTags) TopicTagNames(_ context.Context, topicID int64) ([]string, error) {
	return slices.Clone(f.tags[topicID]), nil
}

func (f *fakeTopicTags) ReplaceTopicTags(_ context.Context, topicID int64, names []string) error {
	f.replaces++
	f.tags[topicID] = slices.Clone(names)
	return nil
}

func newTestService(t *testing.T, s Settings, fields CustomFieldReader) *Service {
	t.Helper()

	catalog := testutil.TestLocales(t)
	table, err := NewTagTable(DerivedMappings(catalog))
	require.NoError(t, err)

	if fields == nil {
		fields = &fakeFields{values: map[int64]string{}}
	}

	return New(Config{
		Catalog:  catalog,
		Settings: StaticSettings(s),
		Tags:     table,
		Fields:   fields,
		Loader: LoaderConfig{
			Cache:  cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}),
			TTL:    time.Minute,
			Tags:   &fakeTagTranslations{values: map[string]map[string]string{}},
			Logger: testutil.TestLoggerSilent(),
		},
	})
}

func staff() *model.User  { return &model.User{ID: 1, Username: "system", Staff: true} }
func member() *model.User { return &model.User{ID: 2, Username: "member"} }

func regularTopic() *model.Topic { return &model.Topic{Archetype: model.ArchetypeRegular} }
func privateTopic() *model.Topic { return &model.Topic{Archetype: model.ArchetypePrivateMessage} }
