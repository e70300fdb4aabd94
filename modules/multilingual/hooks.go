// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/olegiv/ocms-multilingual/internal/handler"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/module"
	core "github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/topic"
)

// Bundle name prefixes served through the extra locales endpoint. The tag
// prefix is longer and must be matched first.
const (
	bundlePrefix    = "multilingual_"
	tagBundlePrefix = "multilingual_tags_"
)

// contentLanguageTagsField is the topic payload field and request field
// carrying content-language tags.
const contentLanguageTagsField = "content_language_tags"

// ReservedTagError rejects a tag name that belongs to the content-language
// namespace.
type ReservedTagError struct {
	Name    string
	Message string
}

func (e *ReservedTagError) Error() string { return e.Message }

func (m *Module) registerHooks() {
	hooks := m.ctx.Hooks
	hooks.RegisterFunc(module.HookTopicBeforeCreate, "multilingual_topic_before_create", m.Name(), m.onTopicBeforeCreate)
	hooks.RegisterFunc(module.HookTopicBeforeUpdate, "multilingual_topic_before_update", m.Name(), m.onTopicBeforeUpdate)
	hooks.RegisterFunc(module.HookTopicSerialize, "multilingual_topic_serialize", m.Name(), m.onTopicSerialize)
	hooks.RegisterFunc(module.HookTopicListQuery, "multilingual_topic_list_query", m.Name(), m.onTopicListQuery)
	hooks.RegisterFunc(module.HookSiteSerialize, "multilingual_site_serialize", m.Name(), m.onSiteSerialize)
	hooks.RegisterFunc(module.HookUserSerialize, "multilingual_user_serialize", m.Name(), m.onUserSerialize)
	hooks.RegisterFunc(module.HookTagBeforeCreate, "multilingual_tag_before_create", m.Name(), m.onTagBeforeCreate)
	hooks.RegisterFunc(module.HookExtraLocalesBundle, "multilingual_locale_bundle", m.Name(), m.onLocaleBundle)
}

func (m *Module) enabled() bool {
	return m.settings.Current().Enabled
}

func (m *Module) onTopicBeforeCreate(ctx context.Context, data any) (any, error) {
	e, ok := data.(*topic.CreateEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if err := m.applyContentTags(ctx, e.Tx, e.Topic, e.Actor, e.Tags, e.ContentLanguageTags); err != nil {
		return nil, err
	}
	return e, nil
}

func (m *Module) onTopicBeforeUpdate(ctx context.Context, data any) (any, error) {
	e, ok := data.(*topic.UpdateEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if err := m.applyContentTags(ctx, e.Tx, e.Topic, e.Actor, e.Tags, e.ContentLanguageTags); err != nil {
		return nil, err
	}
	return e, nil
}

// applyContentTags validates the content-language tags submitted with a topic
// and writes them through the open transaction. Enabled content tags may be
// submitted in either list.
func (m *Module) applyContentTags(ctx context.Context, tx core.TopicTagStore, t *model.Topic, actor *model.User, tags, contentTags []string) error {
	if !m.enabled() || !m.svc.ContentLanguages.Enabled() {
		return nil
	}

	requested := m.svc.ContentTags.Filter(slices.Concat(tags, contentTags))
	if err := m.svc.Policy.Check(t, actor, requested); err != nil {
		msg := i18n.T(middleware.LanguageFromContext(ctx), "multilingual.errors.content_language_tag_required")
		return &topic.ValidationError{Field: contentLanguageTagsField, Message: msg, Err: err}
	}

	if _, err := m.svc.ContentTags.UpdateTopicTags(ctx, tx, t.ID, core.Locales(requested)); err != nil {
		return err
	}
	return nil
}

func (m *Module) onTopicSerialize(_ context.Context, data any) (any, error) {
	e, ok := data.(*topic.SerializeEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if m.enabled() && m.svc.ContentLanguages.Enabled() {
		e.Fields[contentLanguageTagsField] = m.svc.ContentTags.FilterNames(e.Tags)
	}
	return e, nil
}

func (m *Module) onTopicListQuery(ctx context.Context, data any) (any, error) {
	e, ok := data.(*topic.ListEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if !m.enabled() {
		return e, nil
	}

	query, err := m.svc.QueryFilter.Apply(ctx, e.Query, e.Actor, e.Params.ContentLanguages)
	if err != nil {
		return nil, err
	}
	e.Query = query
	return e, nil
}

func (m *Module) onSiteSerialize(_ context.Context, data any) (any, error) {
	e, ok := data.(*handler.SiteEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}

	s := m.settings.Current()
	e.Fields["multilingual_enabled"] = s.Enabled
	if !s.Enabled {
		return e, nil
	}

	contentLanguages := []core.Language{}
	if m.svc.ContentLanguages.Enabled() {
		contentLanguages = m.svc.ContentLanguages.List()
	}
	e.Fields["content_languages"] = contentLanguages
	e.Fields["interface_languages"] = m.svc.InterfaceLanguages.List()
	e.Fields["multilingual_require_content_language_tag"] = s.RequireContentLanguageTag
	e.Fields["multilingual_topic_filtering_enabled"] = s.TopicFilteringEnabled
	e.Fields["multilingual_guest_language_switcher"] = s.GuestLanguageSwitcher
	return e, nil
}

func (m *Module) onUserSerialize(ctx context.Context, data any) (any, error) {
	e, ok := data.(*handler.UserEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if !m.enabled() {
		return e, nil
	}

	codes, err := m.svc.Preferences.ContentLanguages(ctx, e.User.UserID())
	if err != nil {
		return nil, err
	}
	e.Fields[core.ContentLanguagesField] = codes
	return e, nil
}

// onTagBeforeCreate keeps the content-language namespace free: mapped tag
// names are never created through the tag API or topic writes, and staff
// alone may create other names with the locale tag prefix.
func (m *Module) onTagBeforeCreate(ctx context.Context, data any) (any, error) {
	e, ok := data.(*topic.TagEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if !m.enabled() {
		return e, nil
	}

	reserved := m.svc.ContentTags.Reserved(e.Name)
	if !reserved && strings.HasPrefix(e.Name, core.TagPrefix) && !e.Actor.IsStaff() {
		reserved = true
	}
	if reserved {
		return nil, &ReservedTagError{
			Name:    e.Name,
			Message: i18n.T(middleware.LanguageFromContext(ctx), "multilingual.errors.reserved_tag", e.Name),
		}
	}
	return e, nil
}

func (m *Module) onLocaleBundle(ctx context.Context, data any) (any, error) {
	e, ok := data.(*handler.BundleEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", data)
	}
	if !m.enabled() || e.Handled {
		return e, nil
	}

	var (
		body any
		err  error
	)
	switch {
	case strings.HasPrefix(e.Name, tagBundlePrefix):
		body, err = m.svc.Loader.LoadTagTranslations(ctx, strings.TrimPrefix(e.Name, tagBundlePrefix))
	case strings.HasPrefix(e.Name, bundlePrefix):
		body, err = m.svc.Loader.Load(ctx, strings.TrimPrefix(e.Name, bundlePrefix))
	default:
		return e, nil
	}
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding bundle %s: %w", e.Name, err)
	}
	e.Handled = true
	e.ContentType = "application/javascript; charset=utf-8"
	e.Body = encoded
	return e, nil
}
