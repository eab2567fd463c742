// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yordsite/yord/internal/auth"
	"github.com/yordsite/yord/internal/store"
)

// UserService manages administrator accounts.
type UserService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{
		queries: store.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func normalizeLogin(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new administrator with an argon2id hash of password.
func (s *UserService) Create(ctx context.Context, email, password string) (store.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        normalizeLogin(email),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// GetByEmail returns the administrator with the given email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (store.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, normalizeLogin(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// GetByID returns the administrator with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (store.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("getting user %d: %w", id, err)
	}
	return user, nil
}

// Verify reports whether password matches the stored hash for email.
// An unknown email is reported as a mismatch.
func (s *UserService) Verify(ctx context.Context, email, password string) (bool, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("checking password: %w", err)
	}
	return ok, nil
}

// Authenticate checks the credentials and marks the user as logged in.
// Hashes with outdated parameters are upgraded.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return store.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err != nil {
			slog.Warn("failed to rehash password", "error", err, "user_id", user.ID)
		} else if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			ID:           user.ID,
			PasswordHash: newHash,
		}); err != nil {
			slog.Warn("failed to store rehashed password", "error", err, "user_id", user.ID)
		} else {
			user.PasswordHash = newHash
		}
	}

	now := s.now()
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		ID:          user.ID,
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
	}); err != nil {
		slog.Error("failed to update last login", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	}

	if err := s.SetAuthenticated(ctx, user.ID, true); err != nil {
		return store.User{}, err
	}
	user.Authenticated = true

	return user, nil
}

// SetAuthenticated records the login state of a user.
func (s *UserService) SetAuthenticated(ctx context.Context, id int64, authenticated bool) error {
	if err := s.queries.SetUserAuthenticated(ctx, store.SetUserAuthenticatedParams{
		ID:            id,
		Authenticated: authenticated,
	}); err != nil {
		return fmt.Errorf("updating user %d: %w", id, err)
	}
	return nil
}
