// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/topic"
)

// TopicsHandler serves the topic API.
type TopicsHandler struct {
	topics *topic.Service
}

// NewTopicsHandler creates a new TopicsHandler.
func NewTopicsHandler(topics *topic.Service) *TopicsHandler {
	return &TopicsHandler{topics: topics}
}

// Routes registers the topic routes on r.
func (h *TopicsHandler) Routes(r chi.Router) {
	r.Get("/topics", h.List)
	r.Get("/topics/{id}", h.Get)
	r.With(middleware.RequireActor).Post("/topics", h.Create)
	r.With(middleware.RequireActor).Put("/topics/{id}/tags", h.UpdateTags)
}

// Create handles POST /topics.
func (h *TopicsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req topic.CreateParams
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	actor := middleware.GetActor(r)
	created, tags, err := h.topics.Create(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	payload, err := h.topics.Serialize(r.Context(), actor, created, tags)
	if err != nil {
		WriteInternalError(w, r, "failed to serialize topic", err)
		return
	}
	WriteCreated(w, payload)
}

// Get handles GET /topics/{id}.
func (h *TopicsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := topicID(r)
	if !ok {
		WriteNotFound(w, r)
		return
	}

	t, tags, err := h.topics.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	payload, err := h.topics.Serialize(r.Context(), middleware.GetActor(r), t, tags)
	if err != nil {
		WriteInternalError(w, r, "failed to serialize topic", err)
		return
	}
	WriteSuccess(w, payload, nil)
}

// List handles GET /topics?tags=a,b&content_languages=en,zh_CN&limit=&offset=.
func (h *TopicsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := topic.ListParams{
		Tags:             queryList(r, "tags"),
		ContentLanguages: queryList(r, "content_languages"),
		Limit:            queryInt(r, "limit", topic.DefaultPageLimit),
		Offset:           queryInt(r, "offset", 0),
	}

	topics, err := h.topics.List(r.Context(), middleware.GetActor(r), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteSuccess(w, topics, &Meta{Limit: params.Limit, Offset: params.Offset, Count: len(topics)})
}

// UpdateTags handles PUT /topics/{id}/tags.
func (h *TopicsHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	id, ok := topicID(r)
	if !ok {
		WriteNotFound(w, r)
		return
	}

	var req topic.UpdateTagsParams
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	actor := middleware.GetActor(r)
	tags, err := h.topics.UpdateTags(r.Context(), actor, id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	t, _, err := h.topics.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	payload, err := h.topics.Serialize(r.Context(), actor, t, tags)
	if err != nil {
		WriteInternalError(w, r, "failed to serialize topic", err)
		return
	}
	WriteSuccess(w, payload, nil)
}

func (h *TopicsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *topic.ValidationError
	switch {
	case errors.As(err, &verr):
		details := map[string]string{}
		if verr.Field != "" {
			details[verr.Field] = verr.Message
		}
		WriteValidationError(w, verr.Message, details)
	case errors.Is(err, topic.ErrNotFound):
		WriteNotFound(w, r)
	case errors.Is(err, topic.ErrForbidden):
		WriteForbidden(w, r)
	default:
		WriteInternalError(w, r, "topic request failed", err)
	}
}

func topicID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryList collects a list parameter given either repeated or
// comma-separated; "name[]" is accepted as well.
func queryList(r *http.Request, name string) []string {
	q := r.URL.Query()
	raw := slices.Concat(q[name], q[name+"[]"])

	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
