// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/service"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/users"
)

// UsersHandler serves user payloads and custom field updates.
type UsersHandler struct {
	db      *sql.DB
	queries *store.Queries
	fields  *users.FieldRegistry
	hooks   *module.HookRegistry
	events  *service.EventService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, fields *users.FieldRegistry, hooks *module.HookRegistry) *UsersHandler {
	return &UsersHandler{
		db:      db,
		queries: store.New(db),
		fields:  fields,
		hooks:   hooks,
		events:  service.NewEventService(db),
	}
}

// Routes registers the user routes on r.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/users/{username}", h.Get)
	r.With(middleware.RequireActor).Put("/users/{username}/custom-fields", h.UpdateCustomFields)
}

// Get handles GET /users/{username}. Public custom fields are always shown;
// the user and staff see every registered field.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	payload, err := h.serialize(r.Context(), middleware.GetActor(r), user)
	if err != nil {
		WriteInternalError(w, r, "failed to serialize user", err)
		return
	}
	WriteSuccess(w, payload, nil)
}

// UpdateCustomFields handles PUT /users/{username}/custom-fields with a JSON
// object of field name to value. Only the user and staff may write, and
// only registered editable fields are accepted.
func (h *UsersHandler) UpdateCustomFields(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	actor := middleware.GetActor(r)
	if actor.UserID() != user.ID && !actor.IsStaff() {
		WriteForbidden(w, r)
		return
	}

	var req map[string]json.RawMessage
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	encoded := make(map[string]string, len(req))
	fieldErrors := map[string]string{}
	for name, raw := range req {
		value, err := h.fields.Encode(name, raw)
		if err != nil {
			fieldErrors[name] = err.Error()
			continue
		}
		encoded[name] = value
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, "Invalid custom fields", fieldErrors)
		return
	}

	err := store.RunInTx(r.Context(), h.db, func(q *store.Queries) error {
		for name, value := range encoded {
			if err := q.UpsertUserCustomField(r.Context(), user.ID, name, value); err != nil {
				return fmt.Errorf("saving field %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		WriteInternalError(w, r, "failed to save custom fields", err)
		return
	}

	slog.Info("user custom fields updated", "user_id", user.ID, "fields", len(encoded))
	actorID := actor.UserID()
	_ = h.events.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryUser, "Custom fields updated", &actorID, map[string]any{
		"user_id": user.ID,
		"fields":  encoded,
	})

	payload, err := h.serialize(r.Context(), actor, user)
	if err != nil {
		WriteInternalError(w, r, "failed to serialize user", err)
		return
	}
	WriteSuccess(w, payload, nil)
}

func (h *UsersHandler) loadUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	row, err := h.queries.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, r)
		return nil, false
	}
	if err != nil {
		WriteInternalError(w, r, "failed to load user", err)
		return nil, false
	}
	return &model.User{ID: row.ID, Username: row.Username, Staff: row.IsStaff, CreatedAt: row.CreatedAt}, true
}

func (h *UsersHandler) serialize(ctx context.Context, actor, user *model.User) (map[string]any, error) {
	stored, err := h.queries.GetUserCustomFields(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading custom fields: %w", err)
	}

	private := actor.UserID() == user.ID || actor.IsStaff()
	customFields := map[string]any{}
	for name, value := range stored {
		f, ok := h.fields.Lookup(name)
		if !ok || (!f.Public && !private) {
			continue
		}
		customFields[name] = h.fields.Decode(name, value)
	}

	event, err := module.Dispatch(ctx, h.hooks, module.HookUserSerialize, &UserEvent{
		User:   user,
		Actor:  actor,
		Fields: map[string]any{},
	})
	if err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(event.Fields)+5)
	for k, v := range event.Fields {
		payload[k] = v
	}
	payload["id"] = user.ID
	payload["username"] = user.Username
	payload["staff"] = user.Staff
	payload["created_at"] = user.CreatedAt
	payload["custom_fields"] = customFields
	return payload, nil
}
