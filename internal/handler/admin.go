// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/scheduler"
	"github.com/olegiv/ocms-multilingual/internal/service"
)

// JobLister lists scheduled maintenance jobs.
type JobLister interface {
	Jobs() []scheduler.JobInfo
}

// AdminHandler serves the staff endpoints of the host: module management,
// scheduled jobs and the event log. Routes are mounted under /admin behind RequireStaff.
type AdminHandler struct {
	registry *module.Registry
	hooks    *module.HookRegistry
	events   *service.EventService
	jobs     JobLister
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(registry *module.Registry, hooks *module.HookRegistry, events *service.EventService) *AdminHandler {
	return &AdminHandler{registry: registry, hooks: hooks, events: events}
}

// SetJobs exposes the jobs of l on GET /admin/jobs.
func (h *AdminHandler) SetJobs(l JobLister) {
	h.jobs = l
}

// Routes registers the admin routes on r.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/modules", h.ListModules)
	r.Put("/modules/{name}", h.ToggleModule)
	r.Get("/events", h.ListEvents)
	r.Get("/jobs", h.ListJobs)
}

// ListJobs handles GET /admin/jobs.
func (h *AdminHandler) ListJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := []scheduler.JobInfo{}
	if h.jobs != nil {
		jobs = h.jobs.Jobs()
	}
	WriteSuccess(w, jobs, &Meta{Count: len(jobs)})
}

// ModulesResponse lists registered modules and the hooks with handlers.
type ModulesResponse struct {
	Modules []module.Info `json:"modules"`
	Hooks   []string      `json:"hooks"`
}

// ToggleModuleRequest is the body of PUT /admin/modules/{name}.
type ToggleModuleRequest struct {
	Active bool `json:"active"`
}

// EventResponse is the JSON shape of an event log entry.
type EventResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// ListModules handles GET /admin/modules.
func (h *AdminHandler) ListModules(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, ModulesResponse{
		Modules: h.registry.ListInfo(),
		Hooks:   h.hooks.ListHooks(),
	}, nil)
}

// ToggleModule handles PUT /admin/modules/{name}.
func (h *AdminHandler) ToggleModule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.registry.Get(name); !ok {
		WriteNotFound(w, r)
		return
	}

	var req ToggleModuleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, r, map[string]string{"body": err.Error()})
		return
	}

	if err := h.registry.SetActive(name, req.Active); err != nil {
		WriteInternalError(w, r, "failed to toggle module", err)
		return
	}

	actorID := middleware.GetActor(r).UserID()
	slog.Info("module toggled", "module", name, "active", req.Active, "user_id", actorID)
	_ = h.events.LogSettingsEvent(r.Context(), model.EventLevelInfo, "Module toggled", &actorID, map[string]any{
		"module": name,
		"active": req.Active,
	})

	for _, info := range h.registry.ListInfo() {
		if info.Name == name {
			WriteSuccess(w, info, nil)
			return
		}
	}
	WriteNotFound(w, r)
}

// ListEvents handles GET /admin/events?limit=&offset=.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := min(max(queryInt(r, "limit", 50), 1), 200)
	offset := max(queryInt(r, "offset", 0), 0)

	rows, err := h.events.List(r.Context(), limit, offset)
	if err != nil {
		WriteInternalError(w, r, "failed to list events", err)
		return
	}

	events := make([]EventResponse, 0, len(rows))
	for _, e := range rows {
		resp := EventResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
		if e.UserID.Valid {
			id := e.UserID.Int64
			resp.UserID = &id
		}
		events = append(events, resp)
	}
	WriteSuccess(w, events, &Meta{Limit: limit, Offset: offset, Count: len(events)})
}
