// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"fmt"
	"slices"
)

// ContentTag is a topic tag that denotes an enabled content language.
type ContentTag struct {
	TagName string `json:"tag_name"`
	Locale  string `json:"locale"`
}

// TopicTagStore reads and replaces the tag set of a topic. Callers pass a
// transaction-bound store so the replacement commits with the surrounding
// topic write.
type TopicTagStore interface {
	TopicTagNames(ctx context.Context, topicID int64) ([]string, error)
	ReplaceTopicTags(ctx context.Context, topicID int64, names []string) error
}

// ContentTags maps content languages to tags and reconciles topic tag sets.
type ContentTags struct {
	languages *ContentLanguage
	table     *TagTable
}

// NewContentTags creates a ContentTags helper.
func NewContentTags(languages *ContentLanguage, table *TagTable) *ContentTags {
	return &ContentTags{languages: languages, table: table}
}

// TagNameFor returns the tag reserved for a locale. The mapping covers every
// registered locale, enabled or not.
func (c *ContentTags) TagNameFor(code string) (string, bool) {
	return c.table.TagNameFor(code)
}

// Reserved reports whether name is reserved for any registered locale.
func (c *ContentTags) Reserved(name string) bool {
	return c.table.Reserved(name)
}

// Filter keeps the tags that denote an enabled content language, in input order.
func (c *ContentTags) Filter(names []string) []ContentTag {
	enabled := c.enabledByTag()
	out := make([]ContentTag, 0, len(names))
	for _, name := range names {
		if code, ok := enabled[name]; ok {
			out = append(out, ContentTag{TagName: name, Locale: code})
		}
	}
	return out
}

// FilterNames is Filter returning only tag names.
func (c *ContentTags) FilterNames(names []string) []string {
	return TagNames(c.Filter(names))
}

// TagNames returns the tag names of tags.
func TagNames(tags []ContentTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.TagName
	}
	return out
}

// Locales returns the locales of tags.
func Locales(tags []ContentTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Locale
	}
	return out
}

// UpdateTopicTags makes the topic's enabled content tags equal to the tags of
// locales. Requested locales that are not enabled are ignored. Other tags,
// including tags of disabled content languages, are kept in place. The new
// set is written with a single ReplaceTopicTags call and returned.
func (c *ContentTags) UpdateTopicTags(ctx context.Context, tx TopicTagStore, topicID int64, locales []string) ([]string, error) {
	current, err := tx.TopicTagNames(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("reading tags of topic %d: %w", topicID, err)
	}

	enabled := c.enabledByTag()
	wanted := make(map[string]bool, len(locales))
	var additions []string
	for _, code := range locales {
		name, ok := c.table.TagNameFor(code)
		if !ok {
			continue
		}
		if _, on := enabled[name]; !on || wanted[name] {
			continue
		}
		wanted[name] = true
		additions = append(additions, name)
	}

	next := make([]string, 0, len(current)+len(additions))
	for _, name := range current {
		if _, isContent := enabled[name]; isContent && !wanted[name] {
			continue
		}
		if slices.Contains(next, name) {
			continue
		}
		next = append(next, name)
	}
	for _, name := range additions {
		if !slices.Contains(next, name) {
			next = append(next, name)
		}
	}

	if err := tx.ReplaceTopicTags(ctx, topicID, next); err != nil {
		return nil, fmt.Errorf("replacing tags of topic %d: %w", topicID, err)
	}
	return next, nil
}

// enabledByTag maps the tag of every enabled content language to its locale.
func (c *ContentTags) enabledByTag() map[string]string {
	langs := c.languages.List()
	out := make(map[string]string, len(langs))
	for _, l := range langs {
		out[l.TagName] = l.Locale
	}
	return out
}
