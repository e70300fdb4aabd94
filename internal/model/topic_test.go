// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestTopicIsPrivateMessage(t *testing.T) {
	tests := []struct {
		name      string
		archetype string
		want      bool
	}{
		{"regular", ArchetypeRegular, false},
		{"private message", ArchetypePrivateMessage, true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic := &Topic{Archetype: tt.archetype}
			if got := topic.IsPrivateMessage(); got != tt.want {
				t.Errorf("IsPrivateMessage() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilTopic *Topic
	if nilTopic.IsPrivateMessage() {
		t.Error("nil topic reported as private message")
	}
}

func TestValidArchetype(t *testing.T) {
	runHasItemTests(t, []hasItemTest{
		{ArchetypeRegular, true},
		{ArchetypePrivateMessage, true},
		{"banner", false},
		{"", false},
	}, ValidArchetype)
}
