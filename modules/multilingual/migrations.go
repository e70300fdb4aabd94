// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"database/sql"

	"github.com/olegiv/ocms-multilingual/internal/module"
)

// Migrations returns the module's database migrations.
func (m *Module) Migrations() []module.Migration {
	return []module.Migration{
		{
			Version:     1,
			Description: "Create multilingual_settings table",
			Up: func(db *sql.DB) error {
				_, err := db.Exec(`
					CREATE TABLE IF NOT EXISTS multilingual_settings (
						name TEXT PRIMARY KEY,
						value TEXT NOT NULL,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)
				`)
				return err
			},
			Down: func(db *sql.DB) error {
				_, err := db.Exec(`DROP TABLE IF EXISTS multilingual_settings`)
				return err
			},
		},
		{
			Version:     2,
			Description: "Create content_tags table",
			Up: func(db *sql.DB) error {
				_, err := db.Exec(`
					CREATE TABLE IF NOT EXISTS content_tags (
						locale TEXT PRIMARY KEY,
						tag_id INTEGER NOT NULL UNIQUE REFERENCES tags(id) ON DELETE CASCADE,
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)
				`)
				return err
			},
			Down: func(db *sql.DB) error {
				_, err := db.Exec(`DROP TABLE IF EXISTS content_tags`)
				return err
			},
		},
		{
			Version:     3,
			Description: "Create tag_translations table",
			Up: func(db *sql.DB) error {
				_, err := db.Exec(`
					CREATE TABLE IF NOT EXISTS tag_translations (
						tag_name TEXT NOT NULL,
						locale TEXT NOT NULL,
						value TEXT NOT NULL,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						PRIMARY KEY (tag_name, locale)
					);
					CREATE INDEX IF NOT EXISTS idx_tag_translations_locale ON tag_translations(locale);
				`)
				return err
			},
			Down: func(db *sql.DB) error {
				_, err := db.Exec(`DROP TABLE IF EXISTS tag_translations`)
				return err
			},
		},
	}
}
