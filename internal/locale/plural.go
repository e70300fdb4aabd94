// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import "fmt"

// PluralCategory is a CLDR grammatical plural category.
type PluralCategory string

// Plural categories as defined by Unicode CLDR.
// Not all languages use all categories.
const (
	PluralZero  PluralCategory = "zero"
	PluralOne   PluralCategory = "one"
	PluralTwo   PluralCategory = "two"
	PluralFew   PluralCategory = "few"
	PluralMany  PluralCategory = "many"
	PluralOther PluralCategory = "other"
)

// PluralRule maps a count to its plural category.
type PluralRule func(n int) PluralCategory

// PluralSpec describes how a locale pluralizes: the ordered categories it
// uses and the rule selecting one of them for a count.
type PluralSpec struct {
	Categories []PluralCategory
	Rule       PluralRule
}

// Named plural specs accepted in locale definition files.
const (
	PluralSpecOneOther = "one_other"
	PluralSpecOther    = "other"
	PluralSpecSlavic   = "slavic"
	PluralSpecFrench   = "french"
)

// OneOther is used by English, German, Dutch, Swedish and most Germanic languages.
var OneOther = PluralSpec{
	Categories: []PluralCategory{PluralOne, PluralOther},
	Rule: func(n int) PluralCategory {
		if n == 1 {
			return PluralOne
		}
		return PluralOther
	},
}

// OtherOnly is used by languages without grammatical number (Chinese, Japanese, Korean).
var OtherOnly = PluralSpec{
	Categories: []PluralCategory{PluralOther},
	Rule:       func(int) PluralCategory { return PluralOther },
}

// French treats 0 and 1 as singular.
var French = PluralSpec{
	Categories: []PluralCategory{PluralOne, PluralMany, PluralOther},
	Rule: func(n int) PluralCategory {
		absN := abs(n)
		if absN == 0 || absN == 1 {
			return PluralOne
		}
		if absN%1000000 == 0 {
			return PluralMany
		}
		return PluralOther
	},
}

// Slavic covers Russian, Ukrainian, Polish and related languages.
var Slavic = PluralSpec{
	Categories: []PluralCategory{PluralOne, PluralFew, PluralMany, PluralOther},
	Rule: func(n int) PluralCategory {
		absN := abs(n)
		mod10 := absN % 10
		mod100 := absN % 100

		switch {
		case mod10 == 1 && mod100 != 11:
			return PluralOne
		case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
			return PluralFew
		default:
			return PluralMany
		}
	},
}

// NamedPluralSpec resolves a plural spec by the name used in definition files.
func NamedPluralSpec(name string) (PluralSpec, error) {
	switch name {
	case PluralSpecOneOther, "":
		return OneOther, nil
	case PluralSpecOther:
		return OtherOnly, nil
	case PluralSpecSlavic:
		return Slavic, nil
	case PluralSpecFrench:
		return French, nil
	default:
		return PluralSpec{}, fmt.Errorf("unknown plural spec %q", name)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
