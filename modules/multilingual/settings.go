// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/config"
	"github.com/olegiv/ocms-multilingual/internal/locale"
	core "github.com/olegiv/ocms-multilingual/internal/multilingual"
)

var errUnknownSetting = errors.New("unknown setting")

// SettingError reports an invalid settings value.
type SettingError struct {
	Field string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %v: %q", e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *SettingError) Unwrap() error { return e.Err }

// defaultSettings returns the settings seeded from the environment.
func defaultSettings(cfg *config.Config) core.Settings {
	s := core.Settings{
		Enabled:                   cfg.Enabled,
		ContentLanguagesEnabled:   cfg.ContentLanguagesEnabled,
		ContentLanguages:          slices.Clone(cfg.ContentLanguages),
		InterfaceLanguages:        slices.Clone(cfg.InterfaceLanguages),
		RequireContentLanguageTag: core.RequireMode(cfg.RequireContentLanguageTag),
		TopicFilteringEnabled:     cfg.TopicFilteringEnabled,
		GuestLanguageSwitcher:     cfg.GuestLanguageSwitcher,
	}
	if !s.RequireContentLanguageTag.Valid() {
		s.RequireContentLanguageTag = core.RequireNo
	}
	if s.GuestLanguageSwitcher == "" {
		s.GuestLanguageSwitcher = core.SwitcherOff
	}
	return s
}

// settingsStore keeps the site settings in multilingual_settings, one JSON
// value per row, overlaid on the environment defaults. Readers get the
// latest snapshot without locking.
type settingsStore struct {
	db      *sql.DB
	catalog locale.Catalog
	logger  *slog.Logger
	current atomic.Pointer[core.Settings]
}

func newSettingsStore(ctx context.Context, db *sql.DB, catalog locale.Catalog, defaults core.Settings, logger *slog.Logger) (*settingsStore, error) {
	s := &settingsStore{db: db, catalog: catalog, logger: logger}
	if err := s.load(ctx, defaults); err != nil {
		return nil, err
	}
	return s, nil
}

// Current implements multilingual.SettingsSource.
func (s *settingsStore) Current() core.Settings {
	return s.current.Load().Clone()
}

func (s *settingsStore) load(ctx context.Context, defaults core.Settings) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM multilingual_settings`)
	if err != nil {
		return fmt.Errorf("loading multilingual settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	known := settingNames()
	patch := map[string]json.RawMessage{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("scanning multilingual setting: %w", err)
		}
		if !slices.Contains(known, name) {
			s.logger.Warn("ignoring unknown multilingual setting", "name", name)
			continue
		}
		patch[name] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating multilingual settings: %w", err)
	}

	merged, err := mergeSettings(defaults, patch)
	if err != nil {
		return fmt.Errorf("applying stored multilingual settings: %w", err)
	}
	merged = normalizeSettings(merged)
	s.current.Store(&merged)
	return nil
}

// Update applies patch, keyed by the JSON names of core.Settings, validates
// the result and persists every setting. The snapshot changes only after the
// write commits.
func (s *settingsStore) Update(ctx context.Context, patch map[string]json.RawMessage) (core.Settings, error) {
	merged, err := mergeSettings(s.Current(), patch)
	if err != nil {
		return core.Settings{}, err
	}
	merged = normalizeSettings(merged)
	if err := validateSettings(merged, s.catalog); err != nil {
		return core.Settings{}, err
	}

	fields, err := settingsFields(merged)
	if err != nil {
		return core.Settings{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Settings{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for name, value := range fields {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO multilingual_settings (name, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, name, string(value), now); err != nil {
			return core.Settings{}, fmt.Errorf("saving setting %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return core.Settings{}, fmt.Errorf("committing settings: %w", err)
	}

	s.current.Store(&merged)
	return merged.Clone(), nil
}

func settingsFields(s core.Settings) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return fields, nil
}

func settingNames() []string {
	fields, _ := settingsFields(core.Settings{})
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// mergeSettings overlays patch on base field by field.
func mergeSettings(base core.Settings, patch map[string]json.RawMessage) (core.Settings, error) {
	fields, err := settingsFields(base)
	if err != nil {
		return core.Settings{}, err
	}

	for name, value := range patch {
		if _, ok := fields[name]; !ok {
			return core.Settings{}, &SettingError{Field: name, Err: errUnknownSetting}
		}
		single, err := json.Marshal(map[string]json.RawMessage{name: value})
		if err != nil {
			return core.Settings{}, &SettingError{Field: name, Err: err}
		}
		var probe core.Settings
		if err := json.Unmarshal(single, &probe); err != nil {
			return core.Settings{}, &SettingError{Field: name, Err: fmt.Errorf("invalid value: %w", err)}
		}
		fields[name] = value
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return core.Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	var out core.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return core.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return out, nil
}

// normalizeSettings trims and deduplicates the language lists.
func normalizeSettings(s core.Settings) core.Settings {
	s.ContentLanguages = uniqueCodes(s.ContentLanguages)
	s.InterfaceLanguages = uniqueCodes(s.InterfaceLanguages)
	return s
}

func uniqueCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func validateSettings(s core.Settings, catalog locale.Catalog) error {
	if !s.RequireContentLanguageTag.Valid() {
		return &SettingError{
			Field: "multilingual_require_content_language_tag",
			Value: string(s.RequireContentLanguageTag),
			Err:   errors.New("must be no, yes or non-staff"),
		}
	}
	if s.GuestLanguageSwitcher != core.SwitcherOff && s.GuestLanguageSwitcher != core.SwitcherHeader {
		return &SettingError{
			Field: "multilingual_guest_language_switcher",
			Value: s.GuestLanguageSwitcher,
			Err:   errors.New("must be off or header"),
		}
	}
	for _, code := range s.ContentLanguages {
		if _, ok := catalog.Get(code); !ok {
			return &SettingError{Field: "multilingual_content_languages", Value: code, Err: locale.ErrUnknownLocale}
		}
	}
	for _, code := range s.InterfaceLanguages {
		if _, ok := catalog.Get(code); !ok {
			return &SettingError{Field: "multilingual_interface_languages", Value: code, Err: locale.ErrUnknownLocale}
		}
	}
	return nil
}
