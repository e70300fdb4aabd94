// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = `id, username, is_staff, api_key_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.IsStaff, &u.APIKeyHash, &u.CreatedAt)
	return u, err
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Username   string
	IsStaff    bool
	APIKeyHash string
	CreatedAt  time.Time
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (username, is_staff, api_key_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.Username, arg.IsStaff, arg.APIKeyHash, arg.CreatedAt,
	)
	return scanUser(row)
}

// GetUserByID returns the user with id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername returns the user with username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetUserByAPIKeyHash returns the user owning the API key hash.
func (q *Queries) GetUserByAPIKeyHash(ctx context.Context, hash string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE api_key_hash = ? AND api_key_hash != ''`, hash)
	return scanUser(row)
}

// GetUserCustomFields returns all custom fields of a user as name -> raw value.
func (q *Queries) GetUserCustomFields(ctx context.Context, userID int64) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT name, value FROM user_custom_fields WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	fields := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		fields[name] = value
	}
	return fields, rows.Err()
}

// GetUserCustomField returns a single custom field value.
// Returns sql.ErrNoRows when the field was never set.
func (q *Queries) GetUserCustomField(ctx context.Context, userID int64, name string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT value FROM user_custom_fields WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&value)
	return value, err
}

// UpsertUserCustomField stores a custom field value, replacing any previous value.
func (q *Queries) UpsertUserCustomField(ctx context.Context, userID int64, name, value string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO user_custom_fields (user_id, name, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, userID, name, value)
	return err
}
