// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the store.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yordsite/yord/internal/store"
	"github.com/yordsite/yord/internal/validation"
)

// DefaultPageSize is used when MemberService is created with a non-positive page size.
const DefaultPageSize = 10

// MemberPage is one page of the mailing list.
type MemberPage struct {
	Members    []store.Member
	Page       int
	PageSize   int
	TotalPages int
	Total      int64
}

// MemberService manages the mailing list.
type MemberService struct {
	db       *sql.DB
	queries  *store.Queries
	pageSize int
	now      func() time.Time
}

// NewMemberService creates a new MemberService listing pageSize members per page.
func NewMemberService(db *sql.DB, pageSize int) *MemberService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MemberService{
		db:       db,
		queries:  store.New(db),
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemberService) withTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if store.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func validateMember(name, email string) (string, string, error) {
	name = validation.Normalize(name)
	email = validation.Normalize(email)

	errs := validation.Member.Validate(map[string]string{"name": name, "email": email})
	if !errs.Empty() {
		return name, email, &ValidationError{Errors: errs}
	}
	return name, email, nil
}

// Create adds a member. date_added is stamped with the current UTC time.
func (s *MemberService) Create(ctx context.Context, name, email string) (store.Member, error) {
	name, email, err := validateMember(name, email)
	if err != nil {
		return store.Member{}, err
	}

	var member store.Member
	err = s.withTx(ctx, func(q *store.Queries) error {
		if err := ensureEmailFree(ctx, q, email); err != nil {
			return err
		}

		member, err = q.CreateMember(ctx, store.CreateMemberParams{
			Name:      name,
			Email:     email,
			DateAdded: s.now(),
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("creating member: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Member{}, err
	}

	return member, nil
}

// EmailRegistered reports whether a member already uses email.
func (s *MemberService) EmailRegistered(ctx context.Context, email string) (bool, error) {
	_, err := s.queries.GetMemberByEmail(ctx, validation.Normalize(email))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("checking email: %w", err)
}

// Get returns the member with the given id.
func (s *MemberService) Get(ctx context.Context, id int64) (store.Member, error) {
	member, err := s.queries.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Member{}, ErrMemberNotFound
		}
		return store.Member{}, fmt.Errorf("getting member %d: %w", id, err)
	}
	return member, nil
}

// List returns one page of members ordered by date added.
// Pages below 1 are treated as 1. A page past the end has no members.
func (s *MemberService) List(ctx context.Context, page int) (MemberPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.queries.CountMembers(ctx)
	if err != nil {
		return MemberPage{}, fmt.Errorf("counting members: %w", err)
	}

	members, err := s.queries.ListMembers(ctx, store.ListMembersParams{
		Limit:  int64(s.pageSize),
		Offset: int64(page-1) * int64(s.pageSize),
	})
	if err != nil {
		return MemberPage{}, fmt.Errorf("listing members: %w", err)
	}

	return MemberPage{
		Members:    members,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: int((total + int64(s.pageSize) - 1) / int64(s.pageSize)),
		Total:      total,
	}, nil
}

// Update replaces name and email of a member. date_added is left untouched.
func (s *MemberService) Update(ctx context.Context, id int64, name, email string) (store.Member, error) {
	name, email, err := validateMember(name, email)
	if err != nil {
		return store.Member{}, err
	}

	var member store.Member
	err = s.withTx(ctx, func(q *store.Queries) error {
		current, err := q.GetMember(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("getting member %d: %w", id, err)
		}

		if email != current.Email {
			if err := ensureEmailFree(ctx, q, email); err != nil {
				return err
			}
		}

		member, err = q.UpdateMember(ctx, store.UpdateMemberParams{
			ID:    id,
			Name:  name,
			Email: email,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("updating member %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return store.Member{}, err
	}

	return member, nil
}

// Delete removes a member.
func (s *MemberService) Delete(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteMember(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting member %d: %w", id, err)
		}
		if n == 0 {
			return ErrMemberNotFound
		}
		return nil
	})
}

func ensureEmailFree(ctx context.Context, q *store.Queries, email string) error {
	_, err := q.GetMemberByEmail(ctx, email)
	if err == nil {
		return ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking email: %w", err)
	}
	return nil
}
