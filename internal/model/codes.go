// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// ParseCodeList decodes a JSON array of codes as stored in settings and user
// custom fields. A bare comma-separated value is accepted too. Empty entries
// are skipped; malformed JSON yields an empty list.
func ParseCodeList(raw string) []string {
	codes := []string{}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return codes
	}

	var decoded []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return codes
		}
	} else {
		decoded = strings.Split(raw, ",")
	}

	for _, c := range decoded {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// CodeListToJSON encodes codes as a JSON array.
func CodeListToJSON(codes []string) string {
	if len(codes) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(codes)
	return string(data)
}
