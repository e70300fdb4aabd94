// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-multilingual/internal/testutil"
)

func TestDeriveTagName(t *testing.T) {
	tests := map[string]string{
		"en":    "lang-en",
		"zh_CN": "lang-zh-cn",
		"pt_BR": "lang-pt-br",
	}
	for code, want := range tests {
		assert.Equal(t, want, DeriveTagName(code), code)
	}
}

func TestNewTagTable(t *testing.T) {
	table, err := NewTagTable([]TagMapping{
		{Locale: "en", TagName: "lang-en"},
		{Locale: "zh_CN", TagName: "chinese"},
	})
	require.NoError(t, err)

	name, ok := table.TagNameFor("zh_CN")
	assert.True(t, ok)
	assert.Equal(t, "chinese", name)

	code, ok := table.LocaleFor("chinese")
	assert.True(t, ok)
	assert.Equal(t, "zh_CN", code)

	assert.True(t, table.Reserved("lang-en"))
	assert.False(t, table.Reserved("lang-zh-cn"))
	assert.Len(t, table.Mappings(), 2)
}

func TestNewTagTableCollision(t *testing.T) {
	_, err := NewTagTable([]TagMapping{
		{Locale: "zh_CN", TagName: "lang-zh-cn"},
		{Locale: "zh-CN", TagName: "lang-zh-cn"},
	})
	assert.ErrorIs(t, err, ErrTagCollision)

	_, err = NewTagTable([]TagMapping{{Locale: "en", TagName: ""}})
	assert.Error(t, err)
}

func TestContentLanguageList(t *testing.T) {
	s := defaultSettings()
	s.ContentLanguages = []string{"zh_CN", "xx", "en", "zh_CN"}
	svc := newTestService(t, s, nil)

	list := svc.ContentLanguages.List()
	require.Len(t, list, 2)
	assert.Equal(t, Language{Locale: "zh_CN", Name: "Chinese", NativeName: "简体中文", TagName: "lang-zh-cn"}, list[0])
	assert.Equal(t, "en", list[1].Locale)
	assert.Equal(t, "lang-en", list[1].TagName)

	catalog := testutil.TestLocales(t)
	for _, l := range list {
		_, ok := catalog.Get(l.Locale)
		assert.True(t, ok, "%s should be registered", l.Locale)
		assert.Contains(t, s.ContentLanguages, l.Locale)
	}
}

func TestContentLanguageEnabled(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   bool
	}{
		{"all on", func(*Settings) {}, true},
		{"plugin off", func(s *Settings) { s.Enabled = false }, false},
		{"content languages off", func(s *Settings) { s.ContentLanguagesEnabled = false }, false},
		{"no languages", func(s *Settings) { s.ContentLanguages = nil }, false},
		{"only unknown languages", func(s *Settings) { s.ContentLanguages = []string{"xx", "yy"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultSettings()
			tt.mutate(&s)
			svc := newTestService(t, s, nil)
			assert.Equal(t, tt.want, svc.ContentLanguages.Enabled())
		})
	}
}

func TestContentLanguageIsEnabled(t *testing.T) {
	svc := newTestService(t, defaultSettings(), nil)

	assert.True(t, svc.ContentLanguages.IsEnabled("en"))
	assert.True(t, svc.ContentLanguages.IsEnabled("zh_CN"))
	assert.False(t, svc.ContentLanguages.IsEnabled("fr"), "registered but not configured")
	assert.False(t, svc.ContentLanguages.IsEnabled("xx"))
	assert.Equal(t, []string{"en", "zh_CN"}, svc.ContentLanguages.Codes())
}

func TestInterfaceLanguageList(t *testing.T) {
	s := defaultSettings()
	svc := newTestService(t, s, nil)
	assert.Equal(t, []string{"en", "zh_CN", "fr"}, svc.InterfaceLanguages.Codes(), "empty setting lists every locale")

	s.InterfaceLanguages = []string{"fr", "xx", "en"}
	svc = newTestService(t, s, nil)
	list := svc.InterfaceLanguages.List()
	assert.Equal(t, []string{"fr", "en"}, svc.InterfaceLanguages.Codes())
	for _, l := range list {
		assert.Empty(t, l.TagName)
	}
}
