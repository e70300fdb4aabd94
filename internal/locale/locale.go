// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale holds the process-wide catalog of registered locales.
//
// Locales are registered once during startup through Setup. After Setup
// returns the registry is sealed and only the read-only Catalog view is
// handed to request-handling code.
package locale

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

var (
	// ErrSealed is returned when registering into a sealed registry.
	ErrSealed = errors.New("locale registry is sealed")

	// ErrInvalidCode is returned for empty or unparseable locale codes.
	ErrInvalidCode = errors.New("invalid locale code")

	// ErrAlreadySetup is returned when Setup is called a second time.
	ErrAlreadySetup = errors.New("locale registry already set up")

	// ErrUnknownLocale is returned for codes that are not registered.
	ErrUnknownLocale = errors.New("unknown locale")
)

// Locale is a registered language/region with display metadata and a plural rule.
type Locale struct {
	Code             string           `json:"locale"`
	Name             string           `json:"name"`
	NativeName       string           `json:"nativeName"`
	PluralCategories []PluralCategory `json:"-"`
	pluralRule       PluralRule
}

// Plural returns the plural category for n.
func (l Locale) Plural(n int) PluralCategory {
	if l.pluralRule == nil {
		return PluralOther
	}
	return l.pluralRule(n)
}

// Tag returns the BCP 47 language tag for the locale code ("zh_CN" -> zh-CN).
func (l Locale) Tag() language.Tag {
	tag, err := language.Parse(bcp47(l.Code))
	if err != nil {
		return language.Und
	}
	return tag
}

// Catalog is the read-only view of registered locales.
type Catalog interface {
	Get(code string) (Locale, bool)
	List() []Locale
}

// Registry stores locales keyed by code, preserving registration order.
type Registry struct {
	mu      sync.RWMutex
	locales []Locale
	byCode  map[string]int // code -> index in locales
	sealed  bool
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		byCode: make(map[string]int),
	}
}

// Register inserts or overwrites the locale for code.
// Overwriting keeps the locale's original position in List.
func (r *Registry) Register(code, name, nativeName string, spec PluralSpec) error {
	if err := ValidateCode(code); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registering %q: %w", code, ErrSealed)
	}

	loc := Locale{
		Code:             code,
		Name:             name,
		NativeName:       nativeName,
		PluralCategories: slices.Clone(spec.Categories),
		pluralRule:       spec.Rule,
	}

	if idx, exists := r.byCode[code]; exists {
		r.locales[idx] = loc
		return nil
	}

	r.byCode[code] = len(r.locales)
	r.locales = append(r.locales, loc)
	return nil
}

// Get returns the locale registered for code.
func (r *Registry) Get(code string) (Locale, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byCode[code]
	if !ok {
		return Locale{}, false
	}
	return r.locales[idx], true
}

// List returns all locales in registration order.
func (r *Registry) List() []Locale {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.locales)
}

// Len returns the number of registered locales.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.locales)
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// ValidateCode checks that code is a parseable language code.
// Both "zh_CN" and "zh-CN" forms are accepted.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCode)
	}
	if _, err := language.Parse(bcp47(code)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidCode, code, err)
	}
	return nil
}

func bcp47(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}

var (
	global    = NewRegistry()
	setupOnce sync.Once
)

// Setup populates the process-wide registry exactly once and seals it.
// It must run before request handling starts.
func Setup(register func(r *Registry) error) error {
	err := ErrAlreadySetup
	setupOnce.Do(func() {
		err = register(global)
		global.Seal()
	})
	return err
}

// Default returns the process-wide catalog.
func Default() Catalog {
	return global
}
