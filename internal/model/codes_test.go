// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParseCodeList(t *testing.T) {
	tests := standardJSONArrayParseTests("en", "en", "zh_CN", "fr")
	tests = append(tests,
		jsonArrayParseTest{name: "comma separated", input: "en, zh_CN", want: []string{"en", "zh_CN"}},
		jsonArrayParseTest{name: "blank entries", input: `["", " en "]`, want: []string{"en"}},
		jsonArrayParseTest{name: "malformed json", input: `["en"`, want: []string{}},
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertStringSliceEqual(t, tt.name, ParseCodeList(tt.input), tt.want)
		})
	}
}

func TestCodeListToJSON(t *testing.T) {
	if got := CodeListToJSON(nil); got != "[]" {
		t.Errorf("CodeListToJSON(nil) = %q, want []", got)
	}
	if got := CodeListToJSON([]string{"en", "zh_CN"}); got != `["en","zh_CN"]` {
		t.Errorf("CodeListToJSON = %q", got)
	}

	roundTrip := ParseCodeList(CodeListToJSON([]string{"ru"}))
	assertStringSliceEqual(t, "round trip", roundTrip, []string{"ru"})
}
