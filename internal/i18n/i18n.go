// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n holds the host translation catalog. Messages are loaded from
// embedded locales/<code>/messages.json files; modules may contribute their own
// files through LoadTranslationsFromFS.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "en"

// ClientPrefix marks keys shipped to browser scripts in locale bundles.
const ClientPrefix = "js."

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all loaded languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	logger       *slog.Logger
}

// catalog is the global catalog instance.
var catalog *Catalog

// SupportedLanguages lists the languages shipped with the binary.
var SupportedLanguages = []string{"en", "zh_CN"}

// Init initializes the global catalog from the embedded files.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		logger:       logger,
	}

	if err := c.loadFS(localesFS); err != nil {
		return err
	}
	catalog = c

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

// LoadTranslationsFromFS merges every locales/<code>/messages.json found in
// fsys under root into the global catalog. Existing keys are overwritten.
func LoadTranslationsFromFS(fsys fs.FS, root string) error {
	if catalog == nil {
		return fmt.Errorf("i18n not initialized")
	}
	if root != "" {
		sub, err := fs.Sub(fsys, root)
		if err != nil {
			return fmt.Errorf("opening %s: %w", root, err)
		}
		fsys = sub
	}
	return catalog.loadFS(fsys)
}

func (c *Catalog) loadFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return fmt.Errorf("reading locales: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		file := path.Join("locales", entry.Name(), "messages.json")
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := c.merge(entry.Name(), data); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
	}
	return nil
}

func (c *Catalog) merge(lang string, data []byte) error {
	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dst, ok := c.translations[lang]
	if !ok {
		dst = make(map[string]string, len(msgFile.Messages))
		c.translations[lang] = dst
	}
	for _, msg := range msgFile.Messages {
		dst[msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// T translates key into lang, falling back to the default language and then
// to the key itself. Args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	translation, ok := catalog.translations[lang][key]
	if !ok && lang != DefaultLanguage {
		translation, ok = catalog.translations[DefaultLanguage][key]
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Messages returns a copy of the translations stored for lang whose keys
// start with prefix. Missing keys are not filled from the default language.
func Messages(lang, prefix string) map[string]string {
	out := make(map[string]string)
	if catalog == nil {
		return out
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	for k, v := range catalog.translations[lang] {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}

// Resolved returns the default-language messages under prefix overlaid with
// those of lang, so every key known in the default language has a value.
func Resolved(lang, prefix string) map[string]string {
	out := Messages(DefaultLanguage, prefix)
	if lang != DefaultLanguage {
		maps.Copy(out, Messages(lang, prefix))
	}
	return out
}

// HasLanguage reports whether any translations are loaded for lang.
func HasLanguage(lang string) bool {
	if catalog == nil {
		return false
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	_, ok := catalog.translations[lang]
	return ok
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

// MatchLanguage finds the best supported language for an Accept-Language
// header or a single language code. Returns DefaultLanguage when nothing matches.
func MatchLanguage(acceptLang string) string {
	if code, ok := MatchAmong(acceptLang, SupportedLanguages); ok {
		return code
	}
	return DefaultLanguage
}

// MatchAmong matches acceptLang against locale codes such as "zh_CN".
// The second result is false when no candidate is a plausible match.
func MatchAmong(acceptLang string, codes []string) (string, bool) {
	if len(codes) == 0 || strings.TrimSpace(acceptLang) == "" {
		return "", false
	}

	supported := make([]language.Tag, 0, len(codes))
	valid := make([]string, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		valid = append(valid, code)
	}
	if len(supported) == 0 {
		return "", false
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(strings.ReplaceAll(acceptLang, "_", "-"))
		if err != nil {
			return "", false
		}
		tags = []language.Tag{tag}
	}

	matcher := language.NewMatcher(supported)
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(valid) {
		return "", false
	}
	return valid[idx], true
}
