// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetTagByName returns the tag named name.
func (q *Queries) GetTagByName(ctx context.Context, name string) (Tag, error) {
	var t Tag
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM tags WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, err
}

// CreateTag inserts a tag.
func (q *Queries) CreateTag(ctx context.Context, name string) (Tag, error) {
	var t Tag
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO tags (name) VALUES (?) RETURNING id, name, created_at`, name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, err
}

// GetOrCreateTag returns the tag named name, creating it when missing.
func (q *Queries) GetOrCreateTag(ctx context.Context, name string) (Tag, error) {
	tag, err := q.GetTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Tag{}, fmt.Errorf("looking up tag %q: %w", name, err)
	}

	tag, err = q.CreateTag(ctx, name)
	if err != nil {
		return Tag{}, fmt.Errorf("creating tag %q: %w", name, err)
	}
	return tag, nil
}

// TagWithCount is a tag and the number of topics carrying it.
type TagWithCount struct {
	Tag
	TopicCount int64
}

// ListTags returns all tags ordered by name with topic counts.
func (q *Queries) ListTags(ctx context.Context) ([]TagWithCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.created_at, COUNT(tt.topic_id)
		FROM tags g
		LEFT JOIN topic_tags tt ON tt.tag_id = g.id
		GROUP BY g.id
		ORDER BY g.name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []TagWithCount
	for rows.Next() {
		var t TagWithCount
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.TopicCount); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
