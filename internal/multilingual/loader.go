// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/locale"
)

// Translations is the body of a translation bundle entry.
type Translations struct {
	Translations map[string]string `json:"translations"`
}

// TagTranslations is the body of a tag translation bundle entry.
type TagTranslations struct {
	TagTranslations map[string]string `json:"tagTranslations"`
}

// TranslationSource yields the client translations of one locale.
type TranslationSource interface {
	ClientTranslations(code string) map[string]string
}

// TagTranslationStore yields the tag translations of one locale.
type TagTranslationStore interface {
	TagTranslations(ctx context.Context, code string) (map[string]string, error)
}

// CatalogTranslations serves client translations from the i18n catalog.
// Keys lose their client prefix; values missing in a locale come from the
// default language. Interpolation placeholders are left as they are.
type CatalogTranslations struct{}

// ClientTranslations returns the resolved client messages for code.
func (CatalogTranslations) ClientTranslations(code string) map[string]string {
	resolved := i18n.Resolved(code, i18n.ClientPrefix)
	out := make(map[string]string, len(resolved))
	for k, v := range resolved {
		out[strings.TrimPrefix(k, i18n.ClientPrefix)] = v
	}
	return out
}

// LoaderConfig holds the collaborators of a Loader.
type LoaderConfig struct {
	Catalog      locale.Catalog
	Translations TranslationSource
	Tags         TagTranslationStore
	Cache        cache.Cacher
	TTL          time.Duration
	Logger       *slog.Logger
}

// Loader composes per-locale bundles for on-demand script loading.
// Bundles of registered locales are cached; unknown locales get an empty
// bundle that is never cached. Cache and load keys carry a generation that
// Invalidate advances, so a load started before Invalidate never refills
// the cache read after it.
type Loader struct {
	catalog      locale.Catalog
	translations TranslationSource
	tags         TagTranslationStore
	bundles      *cache.TypedCache[Translations]
	tagBundles   *cache.TypedCache[TagTranslations]
	group        singleflight.Group
	generation   atomic.Uint64
	logger       *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	translations := cfg.Translations
	if translations == nil {
		translations = CatalogTranslations{}
	}

	return &Loader{
		catalog:      cfg.Catalog,
		translations: translations,
		tags:         cfg.Tags,
		bundles:      cache.NewTypedCache[Translations](cfg.Cache, "bundle:", cfg.TTL),
		tagBundles:   cache.NewTypedCache[TagTranslations](cfg.Cache, "tag_bundle:", cfg.TTL),
		logger:       logger,
	}
}

// Load returns {code: {translations: {...}}}.
func (l *Loader) Load(ctx context.Context, code string) (map[string]Translations, error) {
	if _, ok := l.catalog.Get(code); !ok {
		l.logger.Debug("bundle requested for unknown locale", "locale", code)
		return map[string]Translations{code: {Translations: map[string]string{}}}, nil
	}

	key := l.key(code)
	v, err, _ := l.group.Do("bundle:"+key, func() (any, error) {
		// Shared by every waiter; one caller's cancellation must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		return l.bundles.GetOrSet(ctx, key, func() (*Translations, error) {
			return &Translations{Translations: l.translations.ClientTranslations(code)}, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading bundle %s: %w", code, err)
	}

	return map[string]Translations{code: *v.(*Translations)}, nil
}

// LoadTagTranslations returns {code: {tagTranslations: {...}}}.
func (l *Loader) LoadTagTranslations(ctx context.Context, code string) (map[string]TagTranslations, error) {
	if _, ok := l.catalog.Get(code); !ok {
		l.logger.Debug("tag bundle requested for unknown locale", "locale", code)
		return map[string]TagTranslations{code: {TagTranslations: map[string]string{}}}, nil
	}

	key := l.key(code)
	v, err, _ := l.group.Do("tag_bundle:"+key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		return l.tagBundles.GetOrSet(ctx, key, func() (*TagTranslations, error) {
			values, err := l.tags.TagTranslations(ctx, code)
			if err != nil {
				return nil, err
			}
			if values == nil {
				values = map[string]string{}
			}
			return &TagTranslations{TagTranslations: values}, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading tag bundle %s: %w", code, err)
	}

	return map[string]TagTranslations{code: *v.(*TagTranslations)}, nil
}

// key scopes code to the current generation.
func (l *Loader) key(code string) string {
	return strconv.FormatUint(l.generation.Load(), 10) + ":" + code
}

// Invalidate drops every cached bundle. Loads still in flight finish under
// the previous generation and are not served afterwards.
func (l *Loader) Invalidate(ctx context.Context) error {
	l.generation.Add(1)
	if err := l.bundles.Purge(ctx); err != nil {
		return fmt.Errorf("purging bundles: %w", err)
	}
	if err := l.tagBundles.Purge(ctx); err != nil {
		return fmt.Errorf("purging tag bundles: %w", err)
	}
	return nil
}
