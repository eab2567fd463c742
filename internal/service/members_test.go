// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yordsite/yord/internal/testutil"
	"github.com/yordsite/yord/internal/validation"
)

func newTestMemberService(t *testing.T, pageSize int) *MemberService {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return NewMemberService(db, pageSize)
}

func TestMemberService_Create(t *testing.T) {
	svc := newTestMemberService(t, 10)
	ctx := context.Background()

	m, err := svc.Create(ctx, "  Jane Doe ", "jane@example.com")
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, "Jane Doe", m.Name)
	assert.WithinDuration(t, time.Now().UTC(), m.DateAdded, time.Minute)

	_, err = svc.Create(ctx, "Someone Else", "jane@example.com")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestMemberService_CreateValidation(t *testing.T) {
	svc := newTestMemberService(t, 10)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		email string
		field string
	}{
		{"empty name", "", "a@example.com", "name"},
		{"long name", strings.Repeat("n", 101), "b@example.com", "name"},
		{"missing at", "Jane", "janeexample.com", "email"},
		{"missing domain dot", "Jane", "jane@example", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input, tt.email)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error = %v", err)
			assert.True(t, verr.Errors.Has(tt.field))
		})
	}

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, page.Total, "rejected members must not be stored")

	_, err = svc.Create(ctx, strings.Repeat("n", 100), "ok@example.com")
	assert.NoError(t, err)
}

func TestMemberService_ConcurrentDuplicate(t *testing.T) {
	svc := newTestMemberService(t, 10)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, fmt.Sprintf("Racer %d", i), "race@example.com")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	}
	assert.Equal(t, 1, created, "exactly one create must win: %v", errs)

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestMemberService_List(t *testing.T) {
	svc := newTestMemberService(t, 2)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, err := svc.Create(ctx, fmt.Sprintf("Member %d", i), fmt.Sprintf("m%d@example.com", i))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Members, 2)
	assert.Equal(t, "Member 0", page.Members[0].Name)
	assert.Equal(t, "Member 1", page.Members[1].Name)

	page, err = svc.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, page.Members, 1)
	assert.Equal(t, "Member 4", page.Members[0].Name)

	page, err = svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)

	page, err = svc.List(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, page.Members)
	assert.Equal(t, 3, page.TotalPages)
}

func TestMemberService_Update(t *testing.T) {
	svc := newTestMemberService(t, 10)
	ctx := context.Background()

	jane, err := svc.Create(ctx, "Jane", "jane@example.com")
	require.NoError(t, err)
	bob, err := svc.Create(ctx, "Bob", "bob@example.com")
	require.NoError(t, err)

	t.Run("persists valid change", func(t *testing.T) {
		updated, err := svc.Update(ctx, jane.ID, "Jane Smith", "jane.smith@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane Smith", updated.Name)
		assert.True(t, updated.DateAdded.Equal(jane.DateAdded))

		got, err := svc.Get(ctx, jane.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane.smith@example.com", got.Email)
	})

	t.Run("same email is allowed", func(t *testing.T) {
		_, err := svc.Update(ctx, bob.ID, "Robert", "bob@example.com")
		assert.NoError(t, err)
	})

	t.Run("invalid change leaves record unchanged", func(t *testing.T) {
		_, err := svc.Update(ctx, bob.ID, strings.Repeat("x", 101), "bob@example.com")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{validation.MsgNameLength}, verr.Errors["name"])

		got, err := svc.Get(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Robert", got.Name)
	})

	t.Run("email of another member is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, bob.ID, "Robert", "jane.smith@example.com")
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		got, err := svc.Get(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := svc.Update(ctx, 9999, "Ghost", "ghost@example.com")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestMemberService_Delete(t *testing.T) {
	svc := newTestMemberService(t, 10)
	ctx := context.Background()

	m, err := svc.Create(ctx, "Jane", "jane@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))

	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, m.ID), ErrMemberNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 424242), ErrMemberNotFound)
}

func TestMemberService_EmailRegistered(t *testing.T) {
	svc := newTestMemberService(t, 10)
	ctx := context.Background()

	ok, err := svc.EmailRegistered(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Create(ctx, "Jane", "jane@example.com")
	require.NoError(t, err)

	ok, err = svc.EmailRegistered(ctx, " jane@example.com ")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: validation.Errors{"name": {validation.MsgNameLength}}}
	assert.Equal(t, "validation failed: name", err.Error())
}
