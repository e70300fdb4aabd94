// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"fmt"
	"strings"

	"github.com/olegiv/ocms-multilingual/internal/locale"
)

// TagPrefix starts every derived content-language tag name.
const TagPrefix = "lang-"

// DeriveTagName returns the conventional tag name for a locale code:
// "zh_CN" -> "lang-zh-cn".
func DeriveTagName(code string) string {
	return TagPrefix + strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// TagMapping pairs a locale with the tag that denotes it.
type TagMapping struct {
	Locale  string `json:"locale"`
	TagName string `json:"tag_name"`
}

// TagTable is the immutable locale <-> tag lookup. It is built once from the
// persisted mapping after the locale registry is sealed.
type TagTable struct {
	byLocale map[string]string
	byTag    map[string]string
	ordered  []TagMapping
}

// NewTagTable builds a table from mappings. A locale or tag name appearing
// twice is an error.
func NewTagTable(mappings []TagMapping) (*TagTable, error) {
	t := &TagTable{
		byLocale: make(map[string]string, len(mappings)),
		byTag:    make(map[string]string, len(mappings)),
		ordered:  make([]TagMapping, 0, len(mappings)),
	}

	for _, m := range mappings {
		if m.Locale == "" || m.TagName == "" {
			return nil, fmt.Errorf("incomplete tag mapping %+v", m)
		}
		if prev, ok := t.byTag[m.TagName]; ok {
			return nil, fmt.Errorf("%w: %q maps to both %s and %s", ErrTagCollision, m.TagName, prev, m.Locale)
		}
		if _, ok := t.byLocale[m.Locale]; ok {
			return nil, fmt.Errorf("locale %s mapped twice", m.Locale)
		}
		t.byLocale[m.Locale] = m.TagName
		t.byTag[m.TagName] = m.Locale
		t.ordered = append(t.ordered, m)
	}
	return t, nil
}

// DerivedMappings returns the conventional mapping for every registered locale.
func DerivedMappings(catalog locale.Catalog) []TagMapping {
	locales := catalog.List()
	out := make([]TagMapping, 0, len(locales))
	for _, l := range locales {
		out = append(out, TagMapping{Locale: l.Code, TagName: DeriveTagName(l.Code)})
	}
	return out
}

// TagNameFor returns the tag mapped to a locale.
func (t *TagTable) TagNameFor(code string) (string, bool) {
	name, ok := t.byLocale[code]
	return name, ok
}

// LocaleFor returns the locale a tag denotes.
func (t *TagTable) LocaleFor(tagName string) (string, bool) {
	code, ok := t.byTag[tagName]
	return code, ok
}

// Reserved reports whether tagName denotes any registered locale, enabled or not.
func (t *TagTable) Reserved(tagName string) bool {
	_, ok := t.byTag[tagName]
	return ok
}

// Mappings returns a copy of the table in insertion order.
func (t *TagTable) Mappings() []TagMapping {
	out := make([]TagMapping, len(t.ordered))
	copy(out, t.ordered)
	return out
}
