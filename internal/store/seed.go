// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Default seeded accounts.
const (
	DefaultStaffUsername = "system"
	DefaultUserUsername  = "member"
)

// HashAPIKey returns the hex SHA-256 of a raw API key.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// GenerateAPIKey returns a new random raw API key and its hash.
func GenerateAPIKey() (rawKey, hash string) {
	rawKey = uuid.NewString()
	return rawKey, HashAPIKey(rawKey)
}

// Seed creates the default staff and member accounts when seeding is enabled
// and they don't exist yet. Generated API keys are logged once.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		slog.Debug("seeding disabled, skipping")
		return nil
	}

	queries := New(db)

	accounts := []struct {
		username string
		staff    bool
	}{
		{DefaultStaffUsername, true},
		{DefaultUserUsername, false},
	}

	for _, acc := range accounts {
		_, err := queries.GetUserByUsername(ctx, acc.username)
		if err == nil {
			slog.Info("user already exists, skipping seed", "username", acc.username)
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking for user %s: %w", acc.username, err)
		}

		rawKey, hash := GenerateAPIKey()
		user, err := queries.CreateUser(ctx, CreateUserParams{
			Username:   acc.username,
			IsStaff:    acc.staff,
			APIKeyHash: hash,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			return fmt.Errorf("creating user %s: %w", acc.username, err)
		}

		slog.Info("created default user",
			"id", user.ID,
			"username", user.Username,
			"staff", user.IsStaff,
			"api_key", rawKey,
		)
	}

	return nil
}
