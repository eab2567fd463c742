// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// rate limiting and response hardening.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/yordsite/yord/internal/auth"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/store"
)

// SessionKeyUserID holds the id of the logged-in administrator.
const SessionKeyUserID = "user_id"

// UserLookup resolves a session claim to a stored administrator.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (store.User, error)
}

// Identify resolves the session into an auth.Identity and stores it in the
// request context. Sessions pointing at a deleted user are destroyed.
// It must run inside sm.LoadAndSave.
func Identify(sm *scs.SessionManager, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var identity auth.Identity = auth.Anonymous{}

			if userID := sm.GetInt64(ctx, SessionKeyUserID); userID != 0 {
				_, err := users.GetByID(ctx, userID)
				switch {
				case err == nil:
					identity = auth.Authenticated{UserID: userID}
				case errors.Is(err, service.ErrUserNotFound):
					slog.Info("session refers to missing user, destroying", "user_id", userID)
					if err := sm.Destroy(ctx); err != nil {
						slog.Error("failed to destroy session", "error", err)
					}
				default:
					slog.Error("failed to load session user", "error", err, "user_id", userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(ctx, identity)))
		})
	}
}

// RequireAuth redirects anonymous requests to the login page.
// It must run after Identify.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserID(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
