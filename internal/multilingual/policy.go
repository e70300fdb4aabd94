// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

// Actor is the user performing a request. A zero UserID is anonymous.
type Actor interface {
	UserID() int64
	IsStaff() bool
}

// Topic is the part of a topic the policy looks at.
type Topic interface {
	IsPrivateMessage() bool
}

// Policy decides whether a new topic must carry a content-language tag.
type Policy struct {
	languages *ContentLanguage
	settings  SettingsSource
}

// NewPolicy creates a Policy.
func NewPolicy(languages *ContentLanguage, settings SettingsSource) *Policy {
	return &Policy{languages: languages, settings: settings}
}

// RequiresLanguageTag reports whether topic needs a content-language tag when
// created by actor. Private messages never do.
func (p *Policy) RequiresLanguageTag(topic Topic, actor Actor) bool {
	if topic == nil || topic.IsPrivateMessage() {
		return false
	}
	if !p.languages.Enabled() {
		return false
	}

	switch p.settings.Current().RequireContentLanguageTag {
	case RequireYes:
		return true
	case RequireNonStaff:
		return actor == nil || !actor.IsStaff()
	default:
		return false
	}
}

// Check returns ErrLanguageTagRequired when the topic needs a content tag and
// submitted holds none.
func (p *Policy) Check(topic Topic, actor Actor, submitted []ContentTag) error {
	if len(submitted) > 0 || !p.RequiresLanguageTag(topic, actor) {
		return nil
	}
	return ErrLanguageTagRequired
}
