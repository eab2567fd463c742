// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager backing the login state.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Lifetime is the absolute lifetime of a login session. A remembered login
// keeps its cookie for the same period.
const Lifetime = 24 * time.Hour

// New creates a new session manager configured with the SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	return NewWithStore(sqlite3store.New(db), isDev)
}

// NewWithStore creates a session manager backed by store.
func NewWithStore(store scs.Store, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	sm.Cookie.Path = "/"
	// Browser-session cookie unless the login form asks to be remembered.
	sm.Cookie.Persist = false

	// The __Host- prefix requires Secure, Path=/ and no Domain.
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}
