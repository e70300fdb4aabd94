// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
)

// LanguageCookieName is the cookie name for the guest language choice.
const LanguageCookieName = "multilingual_locale"

// LanguageOptions configures interface language detection.
type LanguageOptions struct {
	// Codes returns the selectable interface languages.
	Codes func() []string
	// SwitchEnabled reports whether the request may pick a language with
	// ?locale=; the choice is remembered in a cookie. It runs after the actor
	// is resolved, so it can be limited to guests.
	SwitchEnabled func(r *http.Request) bool
	// Fallback is used when nothing matches. Defaults to i18n.DefaultLanguage.
	Fallback string
}

// DetectLanguage creates middleware that stores the interface language of the
// request in its context. Priority order:
// 1. Query parameter ?locale=XX when switching is enabled (updates the cookie)
// 2. Cookie, when switching is enabled
// 3. Accept-Language header
// 4. Fallback
func DetectLanguage(opts LanguageOptions) func(http.Handler) http.Handler {
	fallback := opts.Fallback
	if fallback == "" {
		fallback = i18n.DefaultLanguage
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var codes []string
			if opts.Codes != nil {
				codes = opts.Codes()
			}
			switchEnabled := opts.SwitchEnabled != nil && opts.SwitchEnabled(r)

			lang := fallback
			switch {
			case switchEnabled && slices.Contains(codes, r.URL.Query().Get("locale")):
				lang = r.URL.Query().Get("locale")
				SetLanguageCookie(w, lang)
			case switchEnabled && cookieLanguage(r, codes) != "":
				lang = cookieLanguage(r, codes)
			default:
				if matched, ok := i18n.MatchAmong(r.Header.Get("Accept-Language"), codes); ok {
					lang = matched
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cookieLanguage(r *http.Request, codes []string) string {
	cookie, err := r.Cookie(LanguageCookieName)
	if err != nil || !slices.Contains(codes, cookie.Value) {
		return ""
	}
	return cookie.Value
}

// Language returns the interface language of the request, or
// i18n.DefaultLanguage when none was detected.
func Language(r *http.Request) string {
	return LanguageFromContext(r.Context())
}

// LanguageFromContext returns the interface language stored in ctx, or
// i18n.DefaultLanguage.
func LanguageFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
