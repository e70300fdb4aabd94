// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/topic"
)

// UserEvent is the payload of module.HookUserSerialize.
type UserEvent struct {
	User   *model.User
	Actor  *model.User
	Fields map[string]any
}

// SiteEvent is the payload of module.HookSiteSerialize.
type SiteEvent struct {
	Actor  *model.User
	Locale string
	Fields map[string]any
}

// TagEvent is the payload of module.HookTagBeforeCreate.
type TagEvent = topic.TagEvent

// BundleEvent is the payload of module.HookExtraLocalesBundle. A handler
// claiming Name sets Handled, ContentType and Body.
type BundleEvent struct {
	Name        string
	Handled     bool
	ContentType string
	Body        []byte
}
