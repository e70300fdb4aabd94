// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/module"
)

// LocalesHandler serves on-demand locale bundles. The host knows no bundles
// of its own; modules claim names through module.HookExtraLocalesBundle.
type LocalesHandler struct {
	hooks *module.HookRegistry
}

// NewLocalesHandler creates a new LocalesHandler.
func NewLocalesHandler(hooks *module.HookRegistry) *LocalesHandler {
	return &LocalesHandler{hooks: hooks}
}

// Routes registers the bundle route on r. Extra middleware such as a rate
// limiter applies to the bundle route only.
func (h *LocalesHandler) Routes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Get("/extra-locales/{bundle}", h.Bundle)
}

// Bundle handles GET /extra-locales/{bundle}.
func (h *LocalesHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	event, err := module.Dispatch(r.Context(), h.hooks, module.HookExtraLocalesBundle, &BundleEvent{
		Name: chi.URLParam(r, "bundle"),
	})
	if err != nil {
		WriteInternalError(w, r, "failed to build locale bundle", err)
		return
	}
	if !event.Handled {
		WriteNotFound(w, r)
		return
	}

	contentType := event.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(event.Body)
}
