// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "context"

// Identity is who a request acts as: Anonymous or Authenticated.
type Identity interface {
	isIdentity()
}

// Anonymous is a visitor without a valid session.
type Anonymous struct{}

// Authenticated is a logged-in administrator.
type Authenticated struct {
	UserID int64
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok && id != nil {
		return id
	}
	return Anonymous{}
}

// UserID returns the administrator id and true when ctx is authenticated.
func UserID(ctx context.Context) (int64, bool) {
	if a, ok := FromContext(ctx).(Authenticated); ok {
		return a.UserID, true
	}
	return 0, false
}
