// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Topic archetypes
const (
	ArchetypeRegular        = "regular"
	ArchetypePrivateMessage = "private_message"
)

// Topic is a discussion thread.
type Topic struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Archetype string    `json:"archetype"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsPrivateMessage returns true for private conversations.
func (t *Topic) IsPrivateMessage() bool {
	return t != nil && t.Archetype == ArchetypePrivateMessage
}

// ValidArchetype reports whether a is a known archetype.
func ValidArchetype(a string) bool {
	return a == ArchetypeRegular || a == ArchetypePrivateMessage
}
