// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the request-level domain values shared across the
// application: the acting user, topics and event log constants.
package model

import (
	"time"
)

// User represents a forum account acting on a request.
// A nil *User is the anonymous actor.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Staff     bool      `json:"staff"`
	CreatedAt time.Time `json:"created_at"`
}

// UserID returns the user's ID, or 0 for the anonymous actor.
func (u *User) UserID() int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

// IsStaff returns true if the user holds staff privilege.
func (u *User) IsStaff() bool {
	return u != nil && u.Staff
}

// IsAnonymous returns true for the anonymous actor.
func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == 0
}
