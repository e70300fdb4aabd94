// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const topicColumns = `id, title, archetype, user_id, created_at`

func scanTopic(row interface{ Scan(...any) error }) (Topic, error) {
	var t Topic
	err := row.Scan(&t.ID, &t.Title, &t.Archetype, &t.UserID, &t.CreatedAt)
	return t, err
}

// CreateTopicParams holds the fields for CreateTopic.
type CreateTopicParams struct {
	Title     string
	Archetype string
	UserID    int64
	CreatedAt time.Time
}

// CreateTopic inserts a topic and returns the stored row.
func (q *Queries) CreateTopic(ctx context.Context, arg CreateTopicParams) (Topic, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO topics (title, archetype, user_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+topicColumns,
		arg.Title, arg.Archetype, arg.UserID, arg.CreatedAt,
	)
	return scanTopic(row)
}

// GetTopic returns the topic with id.
func (q *Queries) GetTopic(ctx context.Context, id int64) (Topic, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = ?`, id)
	return scanTopic(row)
}

// ListTopics runs a topic listing query.
func (q *Queries) ListTopics(ctx context.Context, query TopicQuery) ([]Topic, error) {
	sqlStr, args := query.build()

	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var topics []Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// TopicTagNames returns the names of a topic's tags in their stored order.
func (q *Queries) TopicTagNames(ctx context.Context, topicID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.name FROM topic_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.topic_id = ?
		ORDER BY tt.position, g.name
	`, topicID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TopicTagNamesByTopic returns tag names for several topics at once.
func (q *Queries) TopicTagNamesByTopic(ctx context.Context, topicIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(topicIDs))
	if len(topicIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(topicIDs)), ", ")
	args := make([]any, len(topicIDs))
	for i, id := range topicIDs {
		args[i] = id
		result[id] = []string{}
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT tt.topic_id, g.name FROM topic_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.topic_id IN (`+placeholders+`)
		ORDER BY tt.topic_id, tt.position, g.name
	`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		result[id] = append(result[id], name)
	}
	return result, rows.Err()
}

// ReplaceTopicTags replaces a topic's whole tag set with names, creating
// missing tags. Run it on transaction-bound Queries so readers never see a
// partially replaced set.
func (q *Queries) ReplaceTopicTags(ctx context.Context, topicID int64, names []string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM topic_tags WHERE topic_id = ?`, topicID); err != nil {
		return fmt.Errorf("clearing topic tags: %w", err)
	}

	for i, name := range names {
		tag, err := q.GetOrCreateTag(ctx, name)
		if err != nil {
			return err
		}
		if _, err := q.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO topic_tags (topic_id, tag_id, position) VALUES (?, ?, ?)`,
			topicID, tag.ID, i,
		); err != nil {
			return fmt.Errorf("tagging topic %d with %q: %w", topicID, name, err)
		}
	}
	return nil
}
