// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package moduleutil provides module-specific test helpers.
package moduleutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/config"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/testutil"
	"github.com/olegiv/ocms-multilingual/internal/users"
)

// RunMigrations runs all migrations up for the given module.
func RunMigrations(t *testing.T, db *sql.DB, migrations []module.Migration) {
	t.Helper()
	for _, mig := range migrations {
		if err := mig.Up(db); err != nil {
			t.Fatalf("migration %d up: %v", mig.Version, err)
		}
	}
}

// RunMigrationsDown rolls back all migrations for the given module in reverse order.
func RunMigrationsDown(t *testing.T, db *sql.DB, migrations []module.Migration) {
	t.Helper()
	for i := len(migrations) - 1; i >= 0; i-- {
		if err := migrations[i].Down(db); err != nil {
			t.Fatalf("migration %d down: %v", migrations[i].Version, err)
		}
	}
}

// TestModuleContext creates a module.Context backed by db, the test locales,
// a memory cache and cfg. A nil cfg uses an empty config.
func TestModuleContext(t *testing.T, db *sql.DB, cfg *config.Config) (*module.Context, *module.HookRegistry) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}

	logger := testutil.TestLoggerSilent()
	hooks := module.NewHookRegistry(logger)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mem.Close() })

	return &module.Context{
		DB:         db,
		Store:      store.New(db),
		Logger:     logger,
		Config:     cfg,
		Hooks:      hooks,
		Locales:    testutil.TestLocales(t),
		Cache:      mem,
		UserFields: users.NewFieldRegistry(),
	}, hooks
}
