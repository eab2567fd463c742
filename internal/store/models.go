// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Member is a row of the members table.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	DateAdded time.Time `json:"date_added"`
}

// User is a row of the users table (site administrators).
type User struct {
	ID            int64        `json:"id"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"` // Never expose in JSON
	Authenticated bool         `json:"authenticated"`
	CreatedAt     time.Time    `json:"created_at"`
	LastLoginAt   sql.NullTime `json:"last_login_at,omitempty"`
}
