// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/util"
)

// TagsHandler serves the tag API.
type TagsHandler struct {
	queries *store.Queries
	hooks   *module.HookRegistry
}

// NewTagsHandler creates a new TagsHandler.
func NewTagsHandler(db *sql.DB, hooks *module.HookRegistry) *TagsHandler {
	return &TagsHandler{queries: store.New(db), hooks: hooks}
}

// Routes registers the tag routes on r.
func (h *TagsHandler) Routes(r chi.Router) {
	r.Get("/tags", h.List)
	r.With(middleware.RequireActor).Post("/tags", h.Create)
}

// TagResponse is the JSON shape of a tag.
type TagResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TopicCount int64  `json:"topic_count"`
}

// CreateTagRequest is the body of POST /tags.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// List handles GET /tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListTags(r.Context())
	if err != nil {
		WriteInternalError(w, r, "failed to list tags", err)
		return
	}

	tags := make([]TagResponse, 0, len(rows))
	for _, t := range rows {
		tags = append(tags, TagResponse{ID: t.ID, Name: t.Name, TopicCount: t.TopicCount})
	}
	WriteSuccess(w, tags, &Meta{Count: len(tags)})
}

// Create handles POST /tags. Names pass through the tag.before_create hook;
// an existing tag is returned with 200 instead of 201.
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	name := util.NormalizeTagName(req.Name)
	if !util.IsValidTagName(name) {
		msg := i18n.T(middleware.Language(r), "errors.invalid_tag")
		WriteValidationError(w, msg, map[string]string{"name": msg})
		return
	}

	actor := middleware.GetActor(r)
	if _, err := module.Dispatch(r.Context(), h.hooks, module.HookTagBeforeCreate, &TagEvent{Actor: actor, Name: name}); err != nil {
		slog.Info("tag creation rejected", "name", name, "user_id", actor.UserID(), "reason", err)
		msg := hookMessage(err)
		WriteValidationError(w, msg, map[string]string{"name": msg})
		return
	}

	status := http.StatusOK
	if _, err := h.queries.GetTagByName(r.Context(), name); errors.Is(err, sql.ErrNoRows) {
		status = http.StatusCreated
	} else if err != nil {
		WriteInternalError(w, r, "failed to load tag", err)
		return
	}

	tag, err := h.queries.GetOrCreateTag(r.Context(), name)
	if err != nil {
		WriteInternalError(w, r, "failed to create tag", err)
		return
	}
	WriteJSON(w, status, Response{Data: TagResponse{ID: tag.ID, Name: tag.Name}})
}

// hookMessage strips the hook registry's wrapping from a handler error.
func hookMessage(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}
