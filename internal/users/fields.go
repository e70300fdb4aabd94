// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package users keeps the registry of user custom fields that modules expose
// for editing and public display.
package users

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/olegiv/ocms-multilingual/internal/model"
)

// FieldKind describes how a custom field value is encoded.
type FieldKind string

// Field kinds
const (
	FieldString FieldKind = "string"
	FieldList   FieldKind = "list"
)

// Field describes a registered custom field.
type Field struct {
	Name     string
	Kind     FieldKind
	Editable bool
	Public   bool
}

// FieldRegistry holds the custom fields users may set on themselves.
type FieldRegistry struct {
	mu     sync.RWMutex
	fields map[string]*Field
	order  []string
}

// NewFieldRegistry creates an empty registry.
func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{fields: make(map[string]*Field)}
}

func (r *FieldRegistry) field(name string, kind FieldKind) *Field {
	f, ok := r.fields[name]
	if !ok {
		f = &Field{Name: name, Kind: kind}
		r.fields[name] = f
		r.order = append(r.order, name)
	}
	return f
}

// RegisterEditable lets the owning user write the field.
func (r *FieldRegistry) RegisterEditable(name string, kind FieldKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.field(name, kind)
	f.Kind = kind
	f.Editable = true
}

// AllowPublic exposes the field on public user payloads.
func (r *FieldRegistry) AllowPublic(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.field(name, FieldString).Public = true
}

// Lookup returns a copy of the named field.
func (r *FieldRegistry) Lookup(name string) (Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[name]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// Public returns the names of public fields in registration order.
func (r *FieldRegistry) Public() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.DeleteFunc(slices.Clone(r.order), func(n string) bool { return !r.fields[n].Public })
}

// Encode validates a submitted JSON value for field name and returns the
// string to store. Unknown or non-editable fields are rejected.
func (r *FieldRegistry) Encode(name string, raw json.RawMessage) (string, error) {
	f, ok := r.Lookup(name)
	if !ok || !f.Editable {
		return "", fmt.Errorf("field %q is not editable", name)
	}

	switch f.Kind {
	case FieldList:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", fmt.Errorf("field %q must be a list of strings", name)
		}
		return model.CodeListToJSON(list), nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("field %q must be a string", name)
		}
		return s, nil
	}
}

// Decode converts a stored value into its payload form.
func (r *FieldRegistry) Decode(name, stored string) any {
	f, ok := r.Lookup(name)
	if ok && f.Kind == FieldList {
		return model.ParseCodeList(stored)
	}
	return stored
}
