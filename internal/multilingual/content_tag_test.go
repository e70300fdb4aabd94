// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	svc := newTestService(t, defaultSettings(), nil)
	tags := svc.ContentTags

	got := tags.Filter([]string{"news", "lang-zh-cn", "lang-fr", "lang-en", "lang-xx"})
	assert.Equal(t, []ContentTag{
		{TagName: "lang-zh-cn", Locale: "zh_CN"},
		{TagName: "lang-en", Locale: "en"},
	}, got)

	again := tags.Filter(TagNames(got))
	assert.Equal(t, got, again, "filter must be idempotent")

	assert.Empty(t, tags.Filter(nil))
	assert.Empty(t, tags.FilterNames([]string{"news", "lang-fr"}))
}

func TestFilterIgnoresDisabledFeature(t *testing.T) {
	s := defaultSettings()
	s.ContentLanguages = []string{"en"}
	svc := newTestService(t, s, nil)

	// zh_CN is registered and its tag reserved, but not enabled.
	assert.True(t, svc.ContentTags.Reserved("lang-zh-cn"))
	assert.Equal(t, []string{"lang-en"}, svc.ContentTags.FilterNames([]string{"lang-zh-cn", "lang-en"}))
}

func TestUpdateTopicTagsIndependentOfPriorState(t *testing.T) {
	svc := newTestService(t, defaultSettings(), nil)
	ctx := context.Background()

	priors := map[string][]string{
		"empty":            nil,
		"plain tags":       {"news", "help"},
		"other language":   {"news", "lang-en"},
		"same language":    {"lang-zh-cn", "news"},
		"both languages":   {"lang-en", "lang-zh-cn"},
		"disabled locale":  {"lang-fr", "news"},
		"duplicated names": {"news", "news", "lang-en"},
	}
	requests := [][]string{
		nil,
		{"zh_CN"},
		{"en", "zh_CN"},
		{"zh_CN", "fr", "xx", "zh_CN"},
	}

	for name, prior := range priors {
		for _, locales := range requests {
			store := &fakeTopicTags{tags: map[int64][]string{7: prior}}

			next, err := svc.ContentTags.UpdateTopicTags(ctx, store, 7, locales)
			require.NoError(t, err)
			assert.Equal(t, 1, store.replaces, "%s: one write", name)
			assert.Equal(t, next, store.tags[7])

			var want []string
			for _, code := range locales {
				if svc.ContentLanguages.IsEnabled(code) && !contains(want, code) {
					want = append(want, code)
				}
			}
			assert.ElementsMatch(t, want, Locales(svc.ContentTags.Filter(next)), "%s %v", name, locales)

			// Non-content tags survive untouched.
			for _, tag := range prior {
				if !svc.ContentTags.Reserved(tag) || tag == "lang-fr" {
					assert.Contains(t, next, tag, "%s: %s dropped", name, tag)
				}
			}
		}
	}
}

func TestUpdateTopicTagsOrder(t *testing.T) {
	svc := newTestService(t, defaultSettings(), nil)
	store := &fakeTopicTags{tags: map[int64][]string{1: {"news", "lang-en", "help"}}}

	next, err := svc.ContentTags.UpdateTopicTags(context.Background(), store, 1, []string{"en", "zh_CN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"news", "lang-en", "help", "lang-zh-cn"}, next)

	next, err = svc.ContentTags.UpdateTopicTags(context.Background(), store, 1, []string{"zh_CN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"news", "help", "lang-zh-cn"}, next)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
