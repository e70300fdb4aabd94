// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/testutil"
)

func TestQueryFilterApply(t *testing.T) {
	fields := &fakeFields{values: map[int64]string{
		2: `["en"]`,
		3: `["fr"]`,
	}}
	svc := newTestService(t, defaultSettings(), fields)
	ctx := context.Background()
	base := store.TopicQuery{Archetype: model.ArchetypeRegular}.WithAnyTag("news")

	tests := []struct {
		name     string
		actor    Actor
		explicit []string
		want     [][]string
	}{
		{"anonymous without override", (*model.User)(nil), nil, [][]string{{"news"}}},
		{"stored preference", member(), nil, [][]string{{"news"}, {"lang-en"}}},
		{"stale preference fails open", &model.User{ID: 3}, nil, [][]string{{"news"}}},
		{"explicit override wins", member(), []string{"zh_CN"}, [][]string{{"news"}, {"lang-zh-cn"}}},
		{"explicit list ORs locales", nil, []string{"en", "zh_CN"}, [][]string{{"news"}, {"lang-en", "lang-zh-cn"}}},
		{"explicit unknown codes fail open", member(), []string{"fr", "xx"}, [][]string{{"news"}}},
		{"empty explicit falls back", member(), []string{}, [][]string{{"news"}, {"lang-en"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.QueryFilter.Apply(ctx, base, tt.actor, tt.explicit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TagGroups())
			assert.Equal(t, model.ArchetypeRegular, got.Archetype)
		})
	}

	assert.Equal(t, [][]string{{"news"}}, base.TagGroups(), "input query must not change")
}

func TestQueryFilterDisabled(t *testing.T) {
	fields := &fakeFields{values: map[int64]string{2: `["en"]`}}

	s := defaultSettings()
	s.TopicFilteringEnabled = false
	svc := newTestService(t, s, fields)

	got, err := svc.QueryFilter.Apply(context.Background(), store.TopicQuery{}, member(), []string{"en"})
	require.NoError(t, err)
	assert.Empty(t, got.TagGroups())

	s = defaultSettings()
	s.Enabled = false
	svc = newTestService(t, s, fields)

	got, err = svc.QueryFilter.Apply(context.Background(), store.TopicQuery{}, member(), nil)
	require.NoError(t, err)
	assert.Empty(t, got.TagGroups())
}

func TestQueryFilterStoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(t, defaultSettings(), &fakeFields{err: boom})

	_, err := svc.QueryFilter.Apply(context.Background(), store.TopicQuery{}, member(), nil)
	assert.ErrorIs(t, err, boom)
}

// TestQueryFilterPreferenceListing follows a user who filters by English and
// then clears the preference.
func TestQueryFilterPreferenceListing(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	user := testutil.CreateUser(t, db, "reader", false)
	svc := newTestService(t, defaultSettings(), q)

	create := func(title string, tags ...string) {
		topic, err := q.CreateTopic(ctx, store.CreateTopicParams{
			Title: title, Archetype: model.ArchetypeRegular, UserID: user.ID, CreatedAt: time.Now(),
		})
		require.NoError(t, err)
		require.NoError(t, q.ReplaceTopicTags(ctx, topic.ID, tags))
	}
	create("Hello", "news", "lang-en")
	create("你好", "lang-zh-cn")
	create("Untagged")

	unfiltered, err := q.ListTopics(ctx, store.TopicQuery{})
	require.NoError(t, err)
	require.Len(t, unfiltered, 3)

	list := func() []store.Topic {
		query, err := svc.QueryFilter.Apply(ctx, store.TopicQuery{}, user, nil)
		require.NoError(t, err)
		topics, err := q.ListTopics(ctx, query)
		require.NoError(t, err)
		return topics
	}

	// No preference yet: identical to the unfiltered listing.
	assert.Equal(t, unfiltered, list())

	require.NoError(t, q.UpsertUserCustomField(ctx, user.ID, ContentLanguagesField, `["en"]`))
	filtered := list()
	require.Len(t, filtered, 1)
	assert.Equal(t, "Hello", filtered[0].Title)

	require.NoError(t, q.UpsertUserCustomField(ctx, user.ID, ContentLanguagesField, `[]`))
	assert.Equal(t, unfiltered, list())
}
