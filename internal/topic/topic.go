// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package topic implements the host topic service: creation inside a
// transaction, tag updates, serialization and listing. Modules extend each
// step through named hooks.
package topic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/module"
	"github.com/olegiv/ocms-multilingual/internal/service"
	"github.com/olegiv/ocms-multilingual/internal/store"
	"github.com/olegiv/ocms-multilingual/internal/util"
)

// Limits
const (
	MaxTitleLength   = 255
	DefaultPageLimit = 30
	MaxPageLimit     = 100
)

// CreateParams holds the input of Create.
type CreateParams struct {
	Title               string   `json:"title"`
	Archetype           string   `json:"archetype"`
	Tags                []string `json:"tags"`
	ContentLanguageTags []string `json:"content_language_tags"`
}

// UpdateTagsParams holds the input of UpdateTags.
type UpdateTagsParams struct {
	Tags                []string `json:"tags"`
	ContentLanguageTags []string `json:"content_language_tags"`
}

// ListParams holds the input of List.
type ListParams struct {
	Tags []string
	// ContentLanguages overrides the reader's stored preference when non-empty.
	ContentLanguages []string
	Limit            int
	Offset           int
}

// Service is the topic service.
type Service struct {
	db      *sql.DB
	queries *store.Queries
	hooks   *module.HookRegistry
	events  *service.EventService
	logger  *slog.Logger
}

// NewService creates a topic Service. hooks may be nil.
func NewService(db *sql.DB, hooks *module.HookRegistry, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		queries: store.New(db),
		hooks:   hooks,
		events:  service.NewEventService(db),
		logger:  logger,
	}
}

// Create validates params and persists a topic with its tags. The topic row,
// its tags and every topic.before_create handler share one transaction; a
// handler error rolls all of them back.
func (s *Service) Create(ctx context.Context, actor *model.User, params CreateParams) (*model.Topic, []string, error) {
	if actor.IsAnonymous() {
		return nil, nil, ErrForbidden
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, nil, &ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength)}
	}

	archetype := params.Archetype
	if archetype == "" {
		archetype = model.ArchetypeRegular
	}
	if !model.ValidArchetype(archetype) {
		return nil, nil, &ValidationError{Field: "archetype", Message: fmt.Sprintf("unknown archetype %q", archetype)}
	}

	tags := util.NormalizeTagNames(params.Tags)
	contentTags := util.NormalizeTagNames(params.ContentLanguageTags)

	var (
		created *model.Topic
		final   []string
	)
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if err := s.checkNewTags(ctx, q, actor, tags); err != nil {
			return err
		}

		row, err := q.CreateTopic(ctx, store.CreateTopicParams{
			Title:     title,
			Archetype: archetype,
			UserID:    actor.UserID(),
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("inserting topic: %w", err)
		}
		if err := q.ReplaceTopicTags(ctx, row.ID, tags); err != nil {
			return fmt.Errorf("staging tags: %w", err)
		}

		created = toModel(row)
		if _, err := module.Dispatch(ctx, s.hooks, module.HookTopicBeforeCreate, &CreateEvent{
			Tx:                  q,
			Topic:               created,
			Actor:               actor,
			Tags:                tags,
			ContentLanguageTags: contentTags,
		}); err != nil {
			return err
		}

		final, err = q.TopicTagNames(ctx, row.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("topic created", "topic_id", created.ID, "user_id", created.UserID, "tags", final)
	userID := actor.UserID()
	_ = s.events.LogTopicEvent(ctx, model.EventLevelInfo, "Topic created", &userID, map[string]any{
		"topic_id": created.ID,
		"tags":     final,
	})

	return created, final, nil
}

// UpdateTags replaces the tags of an existing topic. Only the author and
// staff may do so.
func (s *Service) UpdateTags(ctx context.Context, actor *model.User, id int64, params UpdateTagsParams) ([]string, error) {
	tags := util.NormalizeTagNames(params.Tags)
	contentTags := util.NormalizeTagNames(params.ContentLanguageTags)

	var final []string
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		row, err := q.GetTopic(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("loading topic %d: %w", id, err)
		}
		if actor.IsAnonymous() || (row.UserID != actor.UserID() && !actor.IsStaff()) {
			return ErrForbidden
		}

		if err := s.checkNewTags(ctx, q, actor, tags); err != nil {
			return err
		}
		if err := q.ReplaceTopicTags(ctx, id, tags); err != nil {
			return fmt.Errorf("replacing tags: %w", err)
		}
		if _, err := module.Dispatch(ctx, s.hooks, module.HookTopicBeforeUpdate, &UpdateEvent{
			Tx:                  q,
			Topic:               toModel(row),
			Actor:               actor,
			Tags:                tags,
			ContentLanguageTags: contentTags,
		}); err != nil {
			return err
		}

		final, err = q.TopicTagNames(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("topic tags updated", "topic_id", id, "tags", final)
	return final, nil
}

// checkNewTags runs tag.before_create for every name that has no tag row
// yet. A rejection becomes a ValidationError on "tags".
func (s *Service) checkNewTags(ctx context.Context, q *store.Queries, actor *model.User, tags []string) error {
	for _, name := range tags {
		_, err := q.GetTagByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("loading tag %q: %w", name, err)
		}

		if _, err := module.Dispatch(ctx, s.hooks, module.HookTagBeforeCreate, &TagEvent{Actor: actor, Name: name}); err != nil {
			s.logger.Info("tag creation rejected", "name", name, "user_id", actor.UserID(), "reason", err)
			msg := err.Error()
			if inner := errors.Unwrap(err); inner != nil {
				msg = inner.Error()
			}
			return &ValidationError{Field: "tags", Message: msg, Err: err}
		}
	}
	return nil
}

// Get returns a topic and its tags.
func (s *Service) Get(ctx context.Context, id int64) (*model.Topic, []string, error) {
	row, err := s.queries.GetTopic(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading topic %d: %w", id, err)
	}

	tags, err := s.queries.TopicTagNames(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tags of topic %d: %w", id, err)
	}
	return toModel(row), tags, nil
}

// Serialize renders a topic payload. topic.serialize handlers may add fields
// but not replace the base ones.
func (s *Service) Serialize(ctx context.Context, actor *model.User, t *model.Topic, tags []string) (map[string]any, error) {
	if tags == nil {
		tags = []string{}
	}

	event, err := module.Dispatch(ctx, s.hooks, module.HookTopicSerialize, &SerializeEvent{
		Topic:  t,
		Actor:  actor,
		Tags:   tags,
		Fields: map[string]any{},
	})
	if err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(event.Fields)+6)
	for k, v := range event.Fields {
		payload[k] = v
	}
	payload["id"] = t.ID
	payload["title"] = t.Title
	payload["archetype"] = t.Archetype
	payload["user_id"] = t.UserID
	payload["created_at"] = t.CreatedAt
	payload["tags"] = tags
	return payload, nil
}

// List returns serialized public topics, newest first. Every tag in
// params.Tags is required; topic.list_query handlers may narrow further.
// Private messages are never listed.
func (s *Service) List(ctx context.Context, actor *model.User, params ListParams) ([]map[string]any, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	query := store.TopicQuery{}
	for _, tag := range util.NormalizeTagNames(params.Tags) {
		query = query.WithAnyTag(tag)
	}
	query = query.Page(limit, max(params.Offset, 0))

	event, err := module.Dispatch(ctx, s.hooks, module.HookTopicListQuery, &ListEvent{
		Query:  query,
		Actor:  actor,
		Params: params,
	})
	if err != nil {
		return nil, err
	}
	query = event.Query
	query.Archetype = model.ArchetypeRegular

	rows, err := s.queries.ListTopics(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	tagsByTopic, err := s.queries.TopicTagNamesByTopic(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading topic tags: %w", err)
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		payload, err := s.Serialize(ctx, actor, toModel(row), tagsByTopic[row.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, payload)
	}
	return out, nil
}

func toModel(row store.Topic) *model.Topic {
	return &model.Topic{
		ID:        row.ID,
		Title:     row.Title,
		Archetype: row.Archetype,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
	}
}
