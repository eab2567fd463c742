// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createMember = `-- name: CreateMember :one
INSERT INTO members (name, email, date_added)
VALUES (?, ?, ?)
RETURNING id, name, email, date_added
`

// CreateMemberParams holds the columns written by CreateMember.
type CreateMemberParams struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	DateAdded time.Time `json:"date_added"`
}

func (q *Queries) CreateMember(ctx context.Context, arg CreateMemberParams) (Member, error) {
	row := q.db.QueryRowContext(ctx, createMember, arg.Name, arg.Email, arg.DateAdded)
	var i Member
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.DateAdded)
	return i, err
}

const getMember = `-- name: GetMember :one
SELECT id, name, email, date_added FROM members WHERE id = ?
`

func (q *Queries) GetMember(ctx context.Context, id int64) (Member, error) {
	row := q.db.QueryRowContext(ctx, getMember, id)
	var i Member
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.DateAdded)
	return i, err
}

const getMemberByEmail = `-- name: GetMemberByEmail :one
SELECT id, name, email, date_added FROM members WHERE email = ?
`

func (q *Queries) GetMemberByEmail(ctx context.Context, email string) (Member, error) {
	row := q.db.QueryRowContext(ctx, getMemberByEmail, email)
	var i Member
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.DateAdded)
	return i, err
}

const countMembers = `-- name: CountMembers :one
SELECT COUNT(*) FROM members
`

func (q *Queries) CountMembers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMembers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listMembers = `-- name: ListMembers :many
SELECT id, name, email, date_added FROM members
ORDER BY date_added ASC, id ASC
LIMIT ? OFFSET ?
`

// ListMembersParams selects one page of members.
type ListMembersParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListMembers(ctx context.Context, arg ListMembersParams) ([]Member, error) {
	rows, err := q.db.QueryContext(ctx, listMembers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Member{}
	for rows.Next() {
		var i Member
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.DateAdded); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMember = `-- name: UpdateMember :one
UPDATE members SET name = ?, email = ?
WHERE id = ?
RETURNING id, name, email, date_added
`

// UpdateMemberParams holds the mutable member columns. date_added is not among them.
type UpdateMemberParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    int64  `json:"id"`
}

func (q *Queries) UpdateMember(ctx context.Context, arg UpdateMemberParams) (Member, error) {
	row := q.db.QueryRowContext(ctx, updateMember, arg.Name, arg.Email, arg.ID)
	var i Member
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.DateAdded)
	return i, err
}

const deleteMember = `-- name: DeleteMember :execrows
DELETE FROM members WHERE id = ?
`

func (q *Queries) DeleteMember(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMember, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
