// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package topic

import "errors"

var (
	// ErrNotFound is returned when a topic does not exist.
	ErrNotFound = errors.New("topic not found")

	// ErrForbidden is returned when the actor may not change a topic.
	ErrForbidden = errors.New("not allowed to change topic")
)

// ValidationError rejects a topic write. Message is user visible.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }
