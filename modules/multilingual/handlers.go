// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/handler"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/locale"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/util"
)

// maxTranslationLength caps a single tag translation.
const maxTranslationLength = 255

// handleGetSettings handles GET /admin/multilingual/settings.
func (m *Module) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	handler.WriteSuccess(w, m.settings.Current(), nil)
}

// handleUpdateSettings handles PUT /admin/multilingual/settings. The body is
// a partial settings object; omitted settings keep their values.
func (m *Module) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&patch); err != nil {
		handler.WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	updated, err := m.settings.Update(r.Context(), patch)
	if err != nil {
		var serr *SettingError
		if errors.As(err, &serr) {
			lang := middleware.Language(r)
			msg := i18n.T(lang, "multilingual.errors.invalid_setting", serr.Field)
			if errors.Is(err, locale.ErrUnknownLocale) {
				msg = i18n.T(lang, "multilingual.errors.unknown_locale", serr.Value)
			}
			handler.WriteValidationError(w, msg, map[string]string{serr.Field: serr.Error()})
			return
		}
		handler.WriteInternalError(w, r, "failed to save multilingual settings", err)
		return
	}

	actorID := middleware.GetActor(r).UserID()
	m.ctx.Logger.Info("multilingual settings updated", "user_id", actorID, "enabled", updated.Enabled)
	_ = m.events.LogSettingsEvent(r.Context(), model.EventLevelInfo, "Multilingual settings updated", &actorID, map[string]any{
		"changed": keys(patch),
	})

	handler.WriteSuccess(w, updated, nil)
}

// handleGetTagTranslations handles GET /admin/tag-translations/{tag}.
func (m *Module) handleGetTagTranslations(w http.ResponseWriter, r *http.Request) {
	name, ok := m.lookupTag(w, r)
	if !ok {
		return
	}

	values, err := m.tags.TranslationsOf(r.Context(), name)
	if err != nil {
		handler.WriteInternalError(w, r, "failed to load tag translations", err)
		return
	}
	handler.WriteSuccess(w, map[string]any{"tag": name, "translations": values}, nil)
}

// handleUpdateTagTranslations handles PUT /admin/tag-translations/{tag} with a
// locale -> text object. Markup is stripped; empty values remove the
// translation. Cached bundles are dropped afterwards.
func (m *Module) handleUpdateTagTranslations(w http.ResponseWriter, r *http.Request) {
	name, ok := m.lookupTag(w, r)
	if !ok {
		return
	}

	var req map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		handler.WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	lang := middleware.Language(r)
	values := make(map[string]string, len(req))
	fieldErrors := map[string]string{}
	for code, text := range req {
		if _, ok := m.ctx.Locales.Get(code); !ok {
			fieldErrors[code] = i18n.T(lang, "multilingual.errors.unknown_locale", code)
			continue
		}
		clean := strings.TrimSpace(m.sanitizer.Sanitize(text))
		if clean == "" {
			continue
		}
		if len([]rune(clean)) > maxTranslationLength {
			fieldErrors[code] = i18n.T(lang, "multilingual.errors.translation_too_long", maxTranslationLength)
			continue
		}
		values[code] = clean
	}
	if len(fieldErrors) > 0 {
		handler.WriteValidationError(w, i18n.T(lang, "errors.invalid_request"), fieldErrors)
		return
	}

	if err := m.tags.ReplaceTranslations(r.Context(), name, values); err != nil {
		handler.WriteInternalError(w, r, "failed to save tag translations", err)
		return
	}
	if err := m.svc.Loader.Invalidate(r.Context()); err != nil {
		m.ctx.Logger.Warn("failed to invalidate locale bundles", "error", err)
	}

	actorID := middleware.GetActor(r).UserID()
	_ = m.events.LogLocaleEvent(r.Context(), model.EventLevelInfo, "Tag translations updated", &actorID, map[string]any{
		"tag":     name,
		"locales": keys(values),
	})

	handler.WriteSuccess(w, map[string]any{"tag": name, "translations": values}, nil)
}

// lookupTag resolves the {tag} URL parameter to an existing tag name.
func (m *Module) lookupTag(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := util.NormalizeTagName(chi.URLParam(r, "tag"))
	if !util.IsValidTagName(name) {
		handler.WriteNotFound(w, r)
		return "", false
	}
	if _, err := m.ctx.Store.GetTagByName(r.Context(), name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			handler.WriteNotFound(w, r)
		} else {
			handler.WriteInternalError(w, r, "failed to load tag", err)
		}
		return "", false
	}
	return name, true
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
