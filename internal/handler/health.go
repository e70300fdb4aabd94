// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/version"
)

// HealthHandler reports liveness, database reachability and the state of
// the bundle cache.
type HealthHandler struct {
	db      *sql.DB
	cache   cache.Cacher
	version version.Info
	started time.Time
}

// pinger is implemented by caches backed by a remote server.
type pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, info version.Info) *HealthHandler {
	return &HealthHandler{db: db, version: info, started: time.Now()}
}

// SetCache adds the bundle cache to the report. A cache that fails its ping
// marks the service degraded.
func (h *HealthHandler) SetCache(c cache.Cacher) {
	h.cache = c
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Cache    string            `json:"cache,omitempty"`
	Stats    *cache.CacheStats `json:"cache_stats,omitempty"`
	Version  string            `json:"version,omitempty"`
	Commit   string            `json:"commit,omitempty"`
	Uptime   string            `json:"uptime"`
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Version:  h.version.Version,
		Commit:   h.version.GitCommit,
		Uptime:   time.Since(h.started).Truncate(time.Second).String(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		resp.Cache = "ok"
		if p, ok := h.cache.(pinger); ok {
			if err := p.Ping(ctx); err != nil {
				resp.Status = "degraded"
				resp.Cache = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}
		if sp, ok := h.cache.(cache.StatsProvider); ok {
			stats := sp.Stats()
			resp.Stats = &stats
		}
	}
	WriteJSON(w, status, resp)
}
