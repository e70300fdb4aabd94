// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package topic

import (
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// CreateEvent is the payload of module.HookTopicBeforeCreate.
// Tx is bound to the creation transaction.
type CreateEvent struct {
	Tx                  *store.Queries
	Topic               *model.Topic
	Actor               *model.User
	Tags                []string
	ContentLanguageTags []string
}

// UpdateEvent is the payload of module.HookTopicBeforeUpdate.
type UpdateEvent struct {
	Tx                  *store.Queries
	Topic               *model.Topic
	Actor               *model.User
	Tags                []string
	ContentLanguageTags []string
}

// TagEvent is the payload of module.HookTagBeforeCreate. It is dispatched
// for every tag about to be created, by POST /tags and by topic writes.
type TagEvent struct {
	Actor *model.User
	Name  string
}

// SerializeEvent is the payload of module.HookTopicSerialize.
type SerializeEvent struct {
	Topic  *model.Topic
	Actor  *model.User
	Tags   []string
	Fields map[string]any
}

// ListEvent is the payload of module.HookTopicListQuery. Handlers replace
// Query with a narrowed copy.
type ListEvent struct {
	Query  store.TopicQuery
	Actor  *model.User
	Params ListParams
}
