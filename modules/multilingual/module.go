// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package multilingual is the module that connects content-language tagging
// to the forum host: it owns the settings and tag mapping tables, registers
// the topic, site, user and tag hooks, serves the locale bundles and exposes
// the staff settings endpoints.
package multilingual

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/module"
	core "github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/service"
	"github.com/olegiv/ocms-multilingual/internal/users"
)

//go:embed locales
var localesFS embed.FS

// Name is the module name used in the registry and the modules table.
const Name = "multilingual"

// Module implements the module.Module interface.
type Module struct {
	module.BaseModule
	ctx       *module.Context
	settings  *settingsStore
	tags      *contentTagStore
	svc       *core.Service
	events    *service.EventService
	sanitizer *bluemonday.Policy
}

// New creates a new instance of the multilingual module.
func New() *Module {
	return &Module{
		BaseModule: module.NewBaseModule(
			Name,
			"1.0.0",
			"Content language tagging, filtering and locale bundles",
		),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Init builds the tag mapping and the content-language service, registers
// the content_languages user field and the hook handlers.
func (m *Module) Init(ctx *module.Context) error {
	m.ctx = ctx
	m.events = service.NewEventService(ctx.DB)
	m.tags = &contentTagStore{db: ctx.DB}

	initCtx := context.Background()
	mappings, err := m.tags.EnsureMappings(initCtx, ctx.Locales, ctx.Logger)
	if err != nil {
		return fmt.Errorf("ensuring content tags: %w", err)
	}
	table, err := core.NewTagTable(mappings)
	if err != nil {
		return fmt.Errorf("building tag table: %w", err)
	}

	m.settings, err = newSettingsStore(initCtx, ctx.DB, ctx.Locales, defaultSettings(ctx.Config), ctx.Logger)
	if err != nil {
		return err
	}

	m.svc = core.New(core.Config{
		Catalog:  ctx.Locales,
		Settings: m.settings,
		Tags:     table,
		Fields:   ctx.Store,
		Loader: core.LoaderConfig{
			Tags:   m.tags,
			Cache:  ctx.Cache,
			TTL:    ctx.Config.CacheTTLDuration(),
			Logger: ctx.Logger,
		},
	})

	if ctx.UserFields != nil {
		ctx.UserFields.RegisterEditable(core.ContentLanguagesField, users.FieldList)
		ctx.UserFields.AllowPublic(core.ContentLanguagesField)
	}

	m.registerHooks()

	current := m.settings.Current()
	ctx.Logger.Info("Multilingual module initialized",
		"enabled", current.Enabled,
		"content_languages", m.svc.ContentLanguages.Codes(),
		"mapped_locales", len(mappings),
	)
	return nil
}

// Shutdown performs cleanup when the module is shutting down.
func (m *Module) Shutdown() error {
	if m.ctx != nil {
		m.ctx.Logger.Info("Multilingual module shutting down")
	}
	return nil
}

// RegisterAdminRoutes registers the staff routes. They stay available while
// the master switch is off so that it can be turned back on.
func (m *Module) RegisterAdminRoutes(r chi.Router) {
	r.Get("/multilingual/settings", m.handleGetSettings)
	r.Put("/multilingual/settings", m.handleUpdateSettings)
	r.Get("/tag-translations/{tag}", m.handleGetTagTranslations)
	r.Put("/tag-translations/{tag}", m.handleUpdateTagTranslations)
}

// TranslationsFS returns the module's message catalog.
func (m *Module) TranslationsFS() fs.FS {
	return localesFS
}

// Service returns the content-language service. It is nil before Init.
func (m *Module) Service() *core.Service {
	return m.svc
}

// LanguageOptions configures middleware.DetectLanguage with the interface
// languages of the module, or the host languages while the module is
// switched off. Guests may switch language only when the switcher is
// enabled in the settings.
func (m *Module) LanguageOptions() middleware.LanguageOptions {
	return middleware.LanguageOptions{
		Codes: func() []string {
			if m.svc == nil || !m.settings.Current().Enabled {
				return i18n.SupportedLanguages
			}
			return m.svc.InterfaceLanguages.Codes()
		},
		SwitchEnabled: func(r *http.Request) bool {
			if m.settings == nil || !middleware.GetActor(r).IsAnonymous() {
				return false
			}
			s := m.settings.Current()
			return s.Enabled && s.GuestLanguageSwitcher == core.SwitcherHeader
		},
	}
}
