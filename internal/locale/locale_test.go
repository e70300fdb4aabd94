// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"errors"
	"sync"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("en", "English", "English", OneOther); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("zh_CN", "Chinese", "简体中文", OtherOnly); err != nil {
		t.Fatalf("Register: %v", err)
	}

	loc, ok := r.Get("zh_CN")
	if !ok {
		t.Fatal("Get(zh_CN) not found")
	}
	if loc.Name != "Chinese" || loc.NativeName != "简体中文" {
		t.Errorf("Get(zh_CN) = %+v, want Chinese/简体中文", loc)
	}
	if len(loc.PluralCategories) != 1 || loc.PluralCategories[0] != PluralOther {
		t.Errorf("PluralCategories = %v, want [other]", loc.PluralCategories)
	}
	if got := loc.Plural(1); got != PluralOther {
		t.Errorf("Plural(1) = %q, want other", got)
	}

	if _, ok := r.Get("fr"); ok {
		t.Error("Get(fr) should not be found")
	}
}

func TestRegisterOverwriteKeepsOrder(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("en", "English", "English", OneOther)
	_ = r.Register("zh_CN", "Chinese", "中文", OtherOnly)
	_ = r.Register("en", "English (US)", "English", OneOther)

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	if list[0].Code != "en" || list[1].Code != "zh_CN" {
		t.Errorf("List() order = [%s %s], want [en zh_CN]", list[0].Code, list[1].Code)
	}
	if list[0].Name != "English (US)" {
		t.Errorf("overwritten name = %q, want English (US)", list[0].Name)
	}
}

func TestListIsCopy(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("en", "English", "English", OneOther)

	list := r.List()
	list[0].Name = "mutated"

	loc, _ := r.Get("en")
	if loc.Name != "English" {
		t.Errorf("registry mutated through List(): %q", loc.Name)
	}
}

func TestRegisterInvalidCode(t *testing.T) {
	r := NewRegistry()
	tests := []string{"", "   ", "not a locale!"}
	for _, code := range tests {
		if err := r.Register(code, "x", "x", OneOther); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Register(%q) error = %v, want ErrInvalidCode", code, err)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestSealedRegistryRejectsRegister(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("en", "English", "English", OneOther)
	r.Seal()

	err := r.Register("fr", "French", "Français", French)
	if !errors.Is(err, ErrSealed) {
		t.Fatalf("Register after Seal error = %v, want ErrSealed", err)
	}
	if _, ok := r.Get("en"); !ok {
		t.Error("sealed registry lost existing locale")
	}
}

func TestLocaleTag(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("zh_CN", "Chinese", "中文", OtherOnly)
	loc, _ := r.Get("zh_CN")

	if got := loc.Tag().String(); got != "zh-CN" {
		t.Errorf("Tag() = %q, want zh-CN", got)
	}
}

func TestConcurrentReads(t *testing.T) {
	r := NewRegistry()
	_ = RegisterAll(r, Builtin())
	r.Seal()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Get("en"); !ok {
				t.Error("Get(en) not found")
			}
			if len(r.List()) != 2 {
				t.Error("List() len != 2")
			}
		}()
	}
	wg.Wait()
}

func TestRegisterAllBuiltin(t *testing.T) {
	r := NewRegistry()
	if err := RegisterAll(r, Builtin()); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	en, ok := r.Get("en")
	if !ok {
		t.Fatal("en not registered")
	}
	if en.Plural(1) != PluralOne || en.Plural(2) != PluralOther {
		t.Errorf("en plural rule = %q/%q, want one/other", en.Plural(1), en.Plural(2))
	}
}

func TestLoadDefinitions(t *testing.T) {
	defs, err := LoadDefinitions("testdata/locales.toml")
	if err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2", len(defs))
	}
	if defs[1].Code != "ru" || defs[1].Plural != PluralSpecSlavic {
		t.Errorf("defs[1] = %+v, want ru/slavic", defs[1])
	}

	r := NewRegistry()
	if err := RegisterAll(r, defs); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	ru, _ := r.Get("ru")
	tests := []struct {
		n    int
		want PluralCategory
	}{
		{1, PluralOne},
		{3, PluralFew},
		{5, PluralMany},
		{11, PluralMany},
		{21, PluralOne},
		{22, PluralFew},
	}
	for _, tt := range tests {
		if got := ru.Plural(tt.n); got != tt.want {
			t.Errorf("ru.Plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLoadDefinitionsUnknownPlural(t *testing.T) {
	defs, err := LoadDefinitions("testdata/bad_plural.toml")
	if err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	if err := RegisterAll(NewRegistry(), defs); err == nil {
		t.Error("RegisterAll with unknown plural spec should fail")
	}
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	if _, err := LoadDefinitions("testdata/missing.toml"); err == nil {
		t.Error("LoadDefinitions on missing file should fail")
	}
}
