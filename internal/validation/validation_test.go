// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMember_NameBounds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"one char", "J", true},
		{"hundred chars", strings.Repeat("a", 100), true},
		{"hundred one chars", strings.Repeat("a", 101), false},
		{"hundred multibyte runes", strings.Repeat("é", 100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Member.Validate(map[string]string{"name": tt.input, "email": "jane@example.com"})
			assert.Equal(t, !tt.valid, errs.Has("name"), "errors: %v", errs)
			assert.False(t, errs.Has("email"))
		})
	}
}

func TestMember_NameLengthMessage(t *testing.T) {
	errs := Member.Validate(map[string]string{"name": strings.Repeat("a", 101), "email": "jane@example.com"})
	assert.Equal(t, []string{MsgNameLength}, errs["name"])
}

func TestMember_EmailFormat(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jane@example.com", true},
		{"jane.doe+list@mail.example.org", true},
		{"janeexample.com", false},
		{"jane@example", false},
		{"jane@.com", false},
		{"jane@example.", false},
		{"@example.com", false},
		{"Jane <jane@example.com>", false},
		{"jane@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			errs := Member.Validate(map[string]string{"name": "Jane", "email": tt.email})
			if tt.valid {
				assert.True(t, errs.Empty(), "errors: %v", errs)
			} else {
				assert.Contains(t, errs["email"], MsgEmailFormat)
			}
		})
	}
}

func TestMember_EmailLength(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"minimum", "a@b.c", true},
		{"255 runes", strings.Repeat("a", 249) + "@b.com", true},
		{"256 runes", strings.Repeat("a", 250) + "@b.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Member.Validate(map[string]string{"name": "Jane", "email": tt.email})
			if tt.valid {
				assert.True(t, errs.Empty(), "errors: %v", errs)
			} else {
				assert.Equal(t, []string{MsgEmailLength}, errs["email"])
			}
		})
	}
}

func TestMember_CollectsAllFailures(t *testing.T) {
	errs := Member.Validate(map[string]string{})

	assert.Equal(t, []string{MsgRequired, MsgNameLength}, errs["name"])
	assert.Equal(t, []string{MsgRequired, MsgEmailLength, MsgEmailFormat}, errs["email"])
}

func TestContact(t *testing.T) {
	errs := Contact.Validate(map[string]string{"name": "Jane", "email": "jane@example.com", "query": "Hello there"})
	assert.True(t, errs.Empty())

	errs = Contact.Validate(map[string]string{"name": "Jane", "email": "nope", "query": strings.Repeat("q", 301)})
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("query"))
}

func TestContact_NameBounds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{MsgRequired, MsgNameLength}},
		{"one char", "J", nil},
		{"hundred chars", strings.Repeat("a", 100), nil},
		{"hundred one chars", strings.Repeat("a", 101), []string{MsgNameLength}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Contact.Validate(map[string]string{"name": tt.input, "email": "jane@example.com", "query": "Hello there"})
			assert.Equal(t, tt.want, errs["name"])
			assert.False(t, errs.Has("email"))
			assert.False(t, errs.Has("query"))
		})
	}
}

func TestContact_QueryBounds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		valid bool
	}{
		{"four runes", strings.Repeat("q", 4), false},
		{"five runes", strings.Repeat("q", 5), true},
		{"300 runes", strings.Repeat("q", 300), true},
		{"301 runes", strings.Repeat("q", 301), false},
		{"300 multibyte runes", strings.Repeat("ö", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Contact.Validate(map[string]string{"name": "Jane", "email": "jane@example.com", "query": tt.query})
			if tt.valid {
				assert.True(t, errs.Empty(), "errors: %v", errs)
			} else {
				assert.Equal(t, []string{MsgQueryLength}, errs["query"])
			}
		})
	}
}

func TestLogin(t *testing.T) {
	errs := Login.Validate(map[string]string{"username": "admin@example.com"})
	assert.False(t, errs.Has("username"))
	assert.Equal(t, MsgRequired, errs.First("password"))
}

func TestNormalize(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "\u00e9", Normalize("  e\u0301\t"))
	assert.Equal(t, "", Errors{}.First("missing"))
}
