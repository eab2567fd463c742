// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yordsite/yord/internal/validation"
)

var (
	// ErrMemberNotFound is returned when no member has the requested id.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDuplicateEmail is returned when another member already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound is returned when no administrator has the requested email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when an email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries field failures of a rejected write.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
