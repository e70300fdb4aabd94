// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package module provides the extension system of the forum host.
// Modules register routes and hook handlers; the host invokes named hooks
// at fixed points of its request pipeline.
package module

import (
	"database/sql"
	"io/fs"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/config"
	"github.com/olegiv/ocms-multilingual/internal/locale"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/users"
)

// Context provides access to application services for modules.
type Context struct {
	DB         *sql.DB
	Store      *store.Queries
	Logger     *slog.Logger
	Config     *config.Config
	Hooks      *HookRegistry
	Locales    locale.Catalog
	Cache      cache.Cacher
	UserFields *users.FieldRegistry
}

// Module defines the interface that all modules must implement.
type Module interface {
	Name() string
	Version() string
	Description() string
	// Dependencies returns the names of modules that must be registered too.
	Dependencies() []string

	// Init initializes the module with the given context.
	Init(ctx *Context) error
	// Shutdown performs cleanup when the module is shutting down.
	Shutdown() error

	// RegisterRoutes registers public routes for the module.
	RegisterRoutes(r chi.Router)
	// RegisterAdminRoutes registers staff-only routes, mounted under /admin.
	RegisterAdminRoutes(r chi.Router)

	// Migrations returns migrations for the module.
	Migrations() []Migration

	// TranslationsFS returns a filesystem with locales/{lang}/messages.json
	// files, or nil.
	TranslationsFS() fs.FS
}

// Migration represents a database migration for a module.
type Migration struct {
	Version     int64
	Description string
	Up          func(db *sql.DB) error
	Down        func(db *sql.DB) error
}

// BaseModule provides default no-op implementations of the Module interface.
type BaseModule struct {
	name        string
	version     string
	description string
	ctx         *Context
}

// NewBaseModule creates a new BaseModule with the given metadata.
func NewBaseModule(name, version, description string) BaseModule {
	return BaseModule{
		name:        name,
		version:     version,
		description: description,
	}
}

func (m *BaseModule) Name() string        { return m.name }
func (m *BaseModule) Version() string     { return m.version }
func (m *BaseModule) Description() string { return m.description }

// Dependencies returns the list of module dependencies (empty by default).
func (m *BaseModule) Dependencies() []string { return nil }

// Init stores the module context.
func (m *BaseModule) Init(ctx *Context) error {
	m.ctx = ctx
	return nil
}

func (m *BaseModule) Shutdown() error                  { return nil }
func (m *BaseModule) RegisterRoutes(_ chi.Router)      {}
func (m *BaseModule) RegisterAdminRoutes(_ chi.Router) {}
func (m *BaseModule) Migrations() []Migration          { return nil }
func (m *BaseModule) TranslationsFS() fs.FS            { return nil }

// Context returns the module context (for use by embedded modules).
func (m *BaseModule) Context() *Context { return m.ctx }
