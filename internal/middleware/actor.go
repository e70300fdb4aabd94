// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// Request headers carrying credentials.
const (
	HeaderAPIKey      = "Api-Key"
	HeaderAPIUsername = "Api-Username"
)

// Actor creates middleware that resolves the acting user from the Api-Key
// and Api-Username headers. Requests without headers continue anonymously;
// bad credentials are rejected with 401.
func Actor(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := r.Header.Get(HeaderAPIKey)
			username := r.Header.Get(HeaderAPIUsername)
			if rawKey == "" && username == "" {
				next.ServeHTTP(w, r)
				return
			}

			lang := Language(r)
			if rawKey == "" || username == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Both Api-Key and Api-Username are required", nil)
				return
			}

			user, err := queries.GetUserByAPIKeyHash(r.Context(), store.HashAPIKey(rawKey))
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key", nil)
				} else {
					slog.Error("failed to validate API key", "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "errors.internal"), nil)
				}
				return
			}

			if subtle.ConstantTimeCompare([]byte(user.Username), []byte(username)) != 1 {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "API key does not belong to this user", nil)
				return
			}

			actor := &model.User{
				ID:        user.ID,
				Username:  user.Username,
				Staff:     user.IsStaff,
				CreatedAt: user.CreatedAt,
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// GetActor returns the acting user, or nil for anonymous requests.
func GetActor(r *http.Request) *model.User {
	return ActorFromContext(r.Context())
}

// ActorFromContext returns the acting user stored in ctx, or nil.
func ActorFromContext(ctx context.Context) *model.User {
	actor, _ := ctx.Value(ContextKeyActor).(*model.User)
	return actor
}

// RequireActor rejects anonymous requests with 401.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetActor(r).IsAnonymous() {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", i18n.T(Language(r), "errors.unauthorized"), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects requests from non-staff actors.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := GetActor(r)
		if actor.IsAnonymous() {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", i18n.T(Language(r), "errors.unauthorized"), nil)
			return
		}
		if !actor.IsStaff() {
			WriteAPIError(w, http.StatusForbidden, "forbidden", i18n.T(Language(r), "errors.forbidden"), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *model.User) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}
