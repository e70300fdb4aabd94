// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/locale"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/version"
)

// SiteHandler serves the bootstrap payload clients load before rendering.
type SiteHandler struct {
	catalog locale.Catalog
	hooks   *module.HookRegistry
	version version.Info
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(catalog locale.Catalog, hooks *module.HookRegistry, info version.Info) *SiteHandler {
	return &SiteHandler{catalog: catalog, hooks: hooks, version: info}
}

// Routes registers the site route on r.
func (h *SiteHandler) Routes(r chi.Router) {
	r.Get("/site", h.Get)
}

// Get handles GET /site.
func (h *SiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	lang := middleware.Language(r)

	event, err := module.Dispatch(r.Context(), h.hooks, module.HookSiteSerialize, &SiteEvent{
		Actor:  middleware.GetActor(r),
		Locale: lang,
		Fields: map[string]any{},
	})
	if err != nil {
		WriteInternalError(w, r, "failed to serialize site", err)
		return
	}

	payload := make(map[string]any, len(event.Fields)+4)
	for k, v := range event.Fields {
		payload[k] = v
	}
	payload["locale"] = lang
	payload["default_locale"] = i18n.DefaultLanguage
	payload["available_locales"] = h.catalog.List()
	payload["version"] = h.version.Version
	WriteSuccess(w, payload, nil)
}
