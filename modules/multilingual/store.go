// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/locale"
	core "github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// contentTagStore persists the locale to tag mapping and the per-locale
// translations of tag names.
type contentTagStore struct {
	db *sql.DB
}

// EnsureMappings returns a mapping for every registered locale, creating
// missing rows. A locale without a row gets its derived tag; an existing tag
// of that name is adopted unless another locale already owns it.
func (s *contentTagStore) EnsureMappings(ctx context.Context, catalog locale.Catalog, logger *slog.Logger) ([]core.TagMapping, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(tx)
	locales := catalog.List()
	mappings := make([]core.TagMapping, 0, len(locales))

	for _, loc := range locales {
		var name string
		err := tx.QueryRowContext(ctx, `
			SELECT t.name FROM content_tags ct JOIN tags t ON t.id = ct.tag_id
			WHERE ct.locale = ?
		`, loc.Code).Scan(&name)
		if err == nil {
			mappings = append(mappings, core.TagMapping{Locale: loc.Code, TagName: name})
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loading content tag of %s: %w", loc.Code, err)
		}

		name = core.DeriveTagName(loc.Code)
		tag, err := q.GetTagByName(ctx, name)
		switch {
		case err == nil:
			var owner string
			err := tx.QueryRowContext(ctx, `SELECT locale FROM content_tags WHERE tag_id = ?`, tag.ID).Scan(&owner)
			if err == nil {
				return nil, fmt.Errorf("%w: tag %q already denotes %s, cannot map %s", core.ErrTagCollision, name, owner, loc.Code)
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("checking owner of tag %q: %w", name, err)
			}
			logger.Warn("adopting existing tag as content language tag", "tag", name, "locale", loc.Code)
		case errors.Is(err, sql.ErrNoRows):
			if tag, err = q.CreateTag(ctx, name); err != nil {
				return nil, fmt.Errorf("creating content tag %q: %w", name, err)
			}
		default:
			return nil, fmt.Errorf("loading tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO content_tags (locale, tag_id, created_at) VALUES (?, ?, ?)`,
			loc.Code, tag.ID, time.Now(),
		); err != nil {
			return nil, fmt.Errorf("mapping %s to %q: %w", loc.Code, name, err)
		}
		logger.Info("content language tag mapped", "locale", loc.Code, "tag", name)
		mappings = append(mappings, core.TagMapping{Locale: loc.Code, TagName: name})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing content tags: %w", err)
	}
	return mappings, nil
}

// TagTranslations implements multilingual.TagTranslationStore.
func (s *contentTagStore) TagTranslations(ctx context.Context, code string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag_name, value FROM tag_translations WHERE locale = ? ORDER BY tag_name`, code)
	if err != nil {
		return nil, fmt.Errorf("querying tag translations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning tag translation: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// TranslationsOf returns locale -> value for one tag.
func (s *contentTagStore) TranslationsOf(ctx context.Context, tagName string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT locale, value FROM tag_translations WHERE tag_name = ? ORDER BY locale`, tagName)
	if err != nil {
		return nil, fmt.Errorf("querying translations of %q: %w", tagName, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var code, value string
		if err := rows.Scan(&code, &value); err != nil {
			return nil, fmt.Errorf("scanning tag translation: %w", err)
		}
		out[code] = value
	}
	return out, rows.Err()
}

// ReplaceTranslations sets the translations of one tag to values.
func (s *contentTagStore) ReplaceTranslations(ctx context.Context, tagName string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tag_translations WHERE tag_name = ?`, tagName); err != nil {
		return fmt.Errorf("clearing translations of %q: %w", tagName, err)
	}
	now := time.Now()
	for code, value := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tag_translations (tag_name, locale, value, updated_at) VALUES (?, ?, ?, ?)`,
			tagName, code, value, now,
		); err != nil {
			return fmt.Errorf("saving %s translation of %q: %w", code, tagName, err)
		}
	}
	return tx.Commit()
}
