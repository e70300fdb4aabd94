// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/testutil"
)

type fakeTagTranslations struct {
	mu     sync.Mutex
	values map[string]map[string]string
	calls  int
	err    error
}

func (f *fakeTagTranslations) TagTranslations(_ context.Context, code string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]string{}
	for k, v := range f.values[code] {
		out[k] = v
	}
	return out, nil
}

type fakeTranslations struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTranslations) ClientTranslations(code string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return map[string]string{"topic.title": "title:" + code, "count": "%{count} topics"}
}

func newTestLoader(t *testing.T, translations TranslationSource, tags TagTranslationStore) *Loader {
	t.Helper()
	return NewLoader(LoaderConfig{
		Catalog:      testutil.TestLocales(t),
		Translations: translations,
		Tags:         tags,
		Cache:        cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}),
		TTL:          time.Minute,
		Logger:       testutil.TestLoggerSilent(),
	})
}

func TestLoaderUnknownLocale(t *testing.T) {
	tags := &fakeTagTranslations{err: errors.New("must not be called")}
	loader := newTestLoader(t, &fakeTranslations{}, tags)
	ctx := context.Background()

	bundle, err := loader.Load(ctx, "zz")
	require.NoError(t, err)
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zz":{"translations":{}}}`, string(data))

	tagBundle, err := loader.LoadTagTranslations(ctx, "zz")
	require.NoError(t, err)
	data, err = json.Marshal(tagBundle)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zz":{"tagTranslations":{}}}`, string(data))
	assert.Zero(t, tags.calls)
}

func TestLoaderLoadCaches(t *testing.T) {
	source := &fakeTranslations{}
	loader := newTestLoader(t, source, &fakeTagTranslations{})
	ctx := context.Background()

	for range 3 {
		bundle, err := loader.Load(ctx, "zh_CN")
		require.NoError(t, err)
		require.Contains(t, bundle, "zh_CN")
		assert.Equal(t, "title:zh_CN", bundle["zh_CN"].Translations["topic.title"])
		assert.Equal(t, "%{count} topics", bundle["zh_CN"].Translations["count"], "placeholders pass through")
	}
	assert.Equal(t, 1, source.calls)

	require.NoError(t, loader.Invalidate(ctx))
	_, err := loader.Load(ctx, "zh_CN")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestLoaderTagTranslations(t *testing.T) {
	tags := &fakeTagTranslations{values: map[string]map[string]string{
		"zh_CN": {"announcement": "公告"},
		"en":    {"announcement": "Announcement"},
	}}
	loader := newTestLoader(t, &fakeTranslations{}, tags)
	ctx := context.Background()

	bundle, err := loader.LoadTagTranslations(ctx, "zh_CN")
	require.NoError(t, err)
	assert.Equal(t, map[string]TagTranslations{
		"zh_CN": {TagTranslations: map[string]string{"announcement": "公告"}},
	}, bundle)

	bundle, err = loader.LoadTagTranslations(ctx, "fr")
	require.NoError(t, err)
	assert.Empty(t, bundle["fr"].TagTranslations)
	assert.NotNil(t, bundle["fr"].TagTranslations)

	tags.values["zh_CN"]["announcement"] = "通知"
	bundle, _ = loader.LoadTagTranslations(ctx, "zh_CN")
	assert.Equal(t, "公告", bundle["zh_CN"].TagTranslations["announcement"], "served from cache")

	require.NoError(t, loader.Invalidate(ctx))
	bundle, _ = loader.LoadTagTranslations(ctx, "zh_CN")
	assert.Equal(t, "通知", bundle["zh_CN"].TagTranslations["announcement"])
}

func TestLoaderTagStoreError(t *testing.T) {
	boom := errors.New("boom")
	loader := newTestLoader(t, &fakeTranslations{}, &fakeTagTranslations{err: boom})

	_, err := loader.LoadTagTranslations(context.Background(), "en")
	assert.ErrorIs(t, err, boom)
}

func TestCatalogTranslations(t *testing.T) {
	require.NoError(t, i18n.Init(testutil.TestLoggerSilent()))

	en := CatalogTranslations{}.ClientTranslations("en")
	require.NotEmpty(t, en)
	assert.Equal(t, "Content languages", en["multilingual.content_languages.title"])
	for key := range en {
		assert.NotContains(t, key, "errors.", "server-side keys must not leak into bundles")
	}

	zh := CatalogTranslations{}.ClientTranslations("zh_CN")
	assert.Len(t, zh, len(en))
	assert.NotEqual(t, en["multilingual.content_languages.title"], zh["multilingual.content_languages.title"])

	// Registered locales without a catalog fall back to the default language.
	fr := CatalogTranslations{}.ClientTranslations("fr")
	assert.Equal(t, en, fr)
}

// gatedTagTranslations snapshots its values on entry and then holds the
// first call until release is closed.
type gatedTagTranslations struct {
	mu      sync.Mutex
	values  map[string]string
	calls   int
	started chan struct{}
	release chan struct{}
}

func (g *gatedTagTranslations) TagTranslations(ctx context.Context, _ string) (map[string]string, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	out := map[string]string{}
	for k, v := range g.values {
		out[k] = v
	}
	g.mu.Unlock()

	if first {
		close(g.started)
		<-g.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *gatedTagTranslations) set(k, v string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[k] = v
}

func TestLoaderInvalidateDuringLoad(t *testing.T) {
	tags := &gatedTagTranslations{
		values:  map[string]string{"announcement": "公告"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	loader := newTestLoader(t, &fakeTranslations{}, tags)
	ctx := context.Background()

	done := make(chan map[string]TagTranslations)
	go func() {
		bundle, _ := loader.LoadTagTranslations(ctx, "zh_CN")
		done <- bundle
	}()
	<-tags.started

	tags.set("announcement", "通知")
	require.NoError(t, loader.Invalidate(ctx))
	close(tags.release)
	stale := <-done
	assert.Equal(t, "公告", stale["zh_CN"].TagTranslations["announcement"])

	bundle, err := loader.LoadTagTranslations(ctx, "zh_CN")
	require.NoError(t, err)
	assert.Equal(t, "通知", bundle["zh_CN"].TagTranslations["announcement"], "load begun before Invalidate must not be served after it")
	assert.Equal(t, 2, tags.calls)
}

func TestLoaderIgnoresCallerCancellation(t *testing.T) {
	tags := &gatedTagTranslations{
		values:  map[string]string{"announcement": "Announcement"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	close(tags.release)
	loader := newTestLoader(t, &fakeTranslations{}, tags)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bundle, err := loader.LoadTagTranslations(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, "Announcement", bundle["en"].TagTranslations["announcement"])

	_, err = loader.Load(ctx, "en")
	assert.NoError(t, err)
}
