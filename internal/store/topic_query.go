// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"slices"
	"strings"
)

// TopicQuery describes a topic listing. It is a value type: every With*
// method returns a modified copy and leaves the receiver untouched, so a
// query shared between callers can be narrowed without affecting the others.
type TopicQuery struct {
	// Archetype restricts results to one archetype; empty matches any.
	Archetype string

	// tagGroups are conjoined; a topic must carry at least one tag of each group.
	tagGroups [][]string

	Limit  int
	Offset int
}

// WithAnyTag returns a copy of q that additionally requires at least one of names.
// Calling it with no names returns q unchanged.
func (q TopicQuery) WithAnyTag(names ...string) TopicQuery {
	if len(names) == 0 {
		return q
	}

	groups := make([][]string, 0, len(q.tagGroups)+1)
	for _, g := range q.tagGroups {
		groups = append(groups, slices.Clone(g))
	}
	groups = append(groups, slices.Clone(names))

	q.tagGroups = groups
	return q
}

// TagGroups returns a copy of the tag predicates.
func (q TopicQuery) TagGroups() [][]string {
	groups := make([][]string, len(q.tagGroups))
	for i, g := range q.tagGroups {
		groups[i] = slices.Clone(g)
	}
	return groups
}

// Page returns a copy of q with pagination applied.
func (q TopicQuery) Page(limit, offset int) TopicQuery {
	q.Limit = limit
	q.Offset = offset
	return q
}

// build renders the query as SQL with positional arguments.
func (q TopicQuery) build() (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT id, title, archetype, user_id, created_at FROM topics t WHERE 1=1`)

	if q.Archetype != "" {
		sb.WriteString(` AND t.archetype = ?`)
		args = append(args, q.Archetype)
	}

	for _, group := range q.tagGroups {
		sb.WriteString(` AND EXISTS (SELECT 1 FROM topic_tags tt JOIN tags g ON g.id = tt.tag_id WHERE tt.topic_id = t.id AND g.name IN (`)
		for i, name := range group {
			if i > 0 {
				sb.WriteString(`, `)
			}
			sb.WriteString(`?`)
			args = append(args, name)
		}
		sb.WriteString(`))`)
	}

	sb.WriteString(` ORDER BY t.created_at DESC, t.id DESC`)

	limit := q.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	sb.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, limit, max(q.Offset, 0))

	return sb.String(), args
}
