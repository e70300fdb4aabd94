// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/locale"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary test database with core migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "multilingual-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// TestLocales returns a sealed registry with en, zh_CN and fr registered.
func TestLocales(t *testing.T) *locale.Registry {
	t.Helper()

	r := locale.NewRegistry()
	defs := append(locale.Builtin(), locale.Definition{
		Code: "fr", Name: "French", NativeName: "Français", Plural: locale.PluralSpecFrench,
	})
	if err := locale.RegisterAll(r, defs); err != nil {
		t.Fatalf("registering test locales: %v", err)
	}
	r.Seal()
	return r
}

// CreateUser inserts a user and returns it as the request actor.
func CreateUser(t *testing.T, db *sql.DB, username string, staff bool) *model.User {
	t.Helper()

	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:   username,
		IsStaff:    staff,
		APIKeyHash: store.HashAPIKey(username + "-key"),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return &model.User{ID: u.ID, Username: u.Username, Staff: u.IsStaff, CreatedAt: u.CreatedAt}
}
