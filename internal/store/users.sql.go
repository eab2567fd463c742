// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, password_hash, created_at)
VALUES (?, ?, ?)
RETURNING id, email, password_hash, authenticated, created_at, last_login_at
`

// CreateUserParams holds the columns written by CreateUser.
type CreateUserParams struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Email, arg.PasswordHash, arg.CreatedAt)
	return scanUser(row)
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, password_hash, authenticated, created_at, last_login_at FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	return scanUser(row)
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, password_hash, authenticated, created_at, last_login_at FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	return scanUser(row)
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = ? WHERE id = ?
`

// UpdateUserPasswordParams replaces the stored hash of a user.
type UpdateUserPasswordParams struct {
	PasswordHash string `json:"password_hash"`
	ID           int64  `json:"id"`
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.ID)
	return err
}

const updateUserLastLogin = `-- name: UpdateUserLastLogin :exec
UPDATE users SET last_login_at = ? WHERE id = ?
`

// UpdateUserLastLoginParams stamps a successful login.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime `json:"last_login_at"`
	ID          int64        `json:"id"`
}

func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx, updateUserLastLogin, arg.LastLoginAt, arg.ID)
	return err
}

const setUserAuthenticated = `-- name: SetUserAuthenticated :exec
UPDATE users SET authenticated = ? WHERE id = ?
`

// SetUserAuthenticatedParams flips the authenticated flag of a user.
type SetUserAuthenticatedParams struct {
	Authenticated bool  `json:"authenticated"`
	ID            int64 `json:"id"`
}

func (q *Queries) SetUserAuthenticated(ctx context.Context, arg SetUserAuthenticatedParams) error {
	_, err := q.db.ExecContext(ctx, setUserAuthenticated, arg.Authenticated, arg.ID)
	return err
}

func scanUser(row *sql.Row) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Authenticated,
		&i.CreatedAt,
		&i.LastLoginAt,
	)
	return i, err
}
