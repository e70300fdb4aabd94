// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/ocms-multilingual/internal/model"
)

// ContentLanguagesField is the user custom field holding the preferred
// content languages as a JSON array of locale codes.
const ContentLanguagesField = "content_languages"

// CustomFieldReader reads one user custom field. It returns sql.ErrNoRows
// when the field is unset.
type CustomFieldReader interface {
	GetUserCustomField(ctx context.Context, userID int64, name string) (string, error)
}

// Preferences reads users' content-language preferences.
type Preferences struct {
	fields    CustomFieldReader
	languages *ContentLanguage
}

// NewPreferences creates a Preferences reader.
func NewPreferences(fields CustomFieldReader, languages *ContentLanguage) *Preferences {
	return &Preferences{fields: fields, languages: languages}
}

// ContentLanguages returns the stored preference of a user restricted to the
// currently enabled content languages. The stored value is never rewritten.
// Anonymous users and users without a preference get an empty list.
func (p *Preferences) ContentLanguages(ctx context.Context, userID int64) ([]string, error) {
	if userID == 0 {
		return []string{}, nil
	}

	raw, err := p.fields.GetUserCustomField(ctx, userID, ContentLanguagesField)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading content languages of user %d: %w", userID, err)
	}

	return p.Prune(model.ParseCodeList(raw)), nil
}

// Prune drops codes that are not enabled content languages, keeping order.
func (p *Preferences) Prune(codes []string) []string {
	enabled := p.languages.Codes()
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if containsCode(enabled, code) && !containsCode(out, code) {
			out = append(out, code)
		}
	}
	return out
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
