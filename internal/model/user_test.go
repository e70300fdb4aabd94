// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestUserIsStaff(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{
			name: "staff user",
			user: &User{ID: 1, Staff: true},
			want: true,
		},
		{
			name: "regular user",
			user: &User{ID: 2},
			want: false,
		},
		{
			name: "anonymous",
			user: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsStaff(); got != tt.want {
				t.Errorf("IsStaff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNilUserIsAnonymous(t *testing.T) {
	var u *User
	if !u.IsAnonymous() {
		t.Error("nil user should be anonymous")
	}
	if u.UserID() != 0 {
		t.Errorf("UserID() = %d, want 0", u.UserID())
	}

	u = &User{ID: 7}
	if u.IsAnonymous() {
		t.Error("user with ID should not be anonymous")
	}
	if u.UserID() != 7 {
		t.Errorf("UserID() = %d, want 7", u.UserID())
	}
}
