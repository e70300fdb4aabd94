// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Definition is the startup registration input for one locale.
type Definition struct {
	Code       string `toml:"code"`
	Name       string `toml:"name"`
	NativeName string `toml:"native_name"`
	Plural     string `toml:"plural"` // one of the PluralSpec* names
}

// definitionFile is the layout of a locale definitions TOML file:
//
//	[[locale]]
//	code = "fr"
//	name = "French"
//	native_name = "Français"
//	plural = "french"
type definitionFile struct {
	Locales []Definition `toml:"locale"`
}

// Builtin returns the locales registered by every deployment.
func Builtin() []Definition {
	return []Definition{
		{Code: "en", Name: "English", NativeName: "English", Plural: PluralSpecOneOther},
		{Code: "zh_CN", Name: "Chinese", NativeName: "简体中文", Plural: PluralSpecOther},
	}
}

// LoadDefinitions reads locale definitions from a TOML file.
func LoadDefinitions(path string) ([]Definition, error) {
	var f definitionFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decoding locale definitions %s: %w", path, err)
	}
	return f.Locales, nil
}

// RegisterAll registers each definition in order.
func RegisterAll(r *Registry, defs []Definition) error {
	for _, def := range defs {
		spec, err := NamedPluralSpec(def.Plural)
		if err != nil {
			return fmt.Errorf("locale %q: %w", def.Code, err)
		}
		if err := r.Register(def.Code, def.Name, def.NativeName, spec); err != nil {
			return err
		}
	}
	return nil
}
