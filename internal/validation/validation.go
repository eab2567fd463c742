// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation provides the field rules applied to submitted forms.
package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Messages shown to visitors.
const (
	MsgRequired    = "This field is required."
	MsgNameLength  = "Name must be between 1 and 100 characters."
	MsgEmailLength = "Email address must be between 3 and 255 characters."
	MsgEmailFormat = "Please enter a valid email address."
	MsgQueryLength = "Query must be between 5 and 300 characters."
)

// Field bounds, counted in runes.
const (
	NameMinLength  = 1
	NameMaxLength  = 100
	EmailMinLength = 3
	EmailMaxLength = 255
	QueryMinLength = 5
	QueryMaxLength = 300
)

// Errors maps a field name to its failure messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Empty reports whether no rule failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Predicate reports whether a normalized value is acceptable.
type Predicate func(value string) bool

// Rule binds a predicate and its failure message to a field.
type Rule struct {
	Field   string
	Check   Predicate
	Message string
}

// Rules is an ordered rule set.
type Rules []Rule

// Validate runs every rule against values and collects all failures.
// Values are normalized before checking; missing keys are treated as "".
func (rs Rules) Validate(values map[string]string) Errors {
	errs := Errors{}
	for _, rule := range rs {
		if !rule.Check(Normalize(values[rule.Field])) {
			errs.Add(rule.Field, rule.Message)
		}
	}
	return errs
}

// Normalize trims surrounding whitespace and converts s to NFC.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Required rejects empty values.
func Required(s string) bool {
	return s != ""
}

// Length accepts values whose rune count is within [minLen, maxLen].
func Length(minLen, maxLen int) Predicate {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= minLen && n <= maxLen
	}
}

// Email accepts a bare local@domain address whose domain contains a dot.
func Email(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

// Member is the rule set for registration and member edits.
var Member = Rules{
	{Field: "name", Check: Required, Message: MsgRequired},
	{Field: "name", Check: Length(NameMinLength, NameMaxLength), Message: MsgNameLength},
	{Field: "email", Check: Required, Message: MsgRequired},
	{Field: "email", Check: Length(EmailMinLength, EmailMaxLength), Message: MsgEmailLength},
	{Field: "email", Check: Email, Message: MsgEmailFormat},
}

// Contact is the rule set for the contact form.
var Contact = Rules{
	{Field: "name", Check: Required, Message: MsgRequired},
	{Field: "name", Check: Length(NameMinLength, NameMaxLength), Message: MsgNameLength},
	{Field: "email", Check: Required, Message: MsgRequired},
	{Field: "email", Check: Email, Message: MsgEmailFormat},
	{Field: "query", Check: Required, Message: MsgRequired},
	{Field: "query", Check: Length(QueryMinLength, QueryMaxLength), Message: MsgQueryLength},
}

// Login is the rule set for the login form.
var Login = Rules{
	{Field: "username", Check: Required, Message: MsgRequired},
	{Field: "password", Check: Required, Message: MsgRequired},
}
