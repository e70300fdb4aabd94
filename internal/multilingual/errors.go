// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import "errors"

var (
	// ErrLanguageTagRequired is returned when a topic must carry a
	// content-language tag and none was submitted.
	ErrLanguageTagRequired = errors.New("content language tag required")

	// ErrTagCollision is returned when two locales derive the same tag name.
	ErrTagCollision = errors.New("content language tag collision")
)
