// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus counters for signups, logins and
// mailing list changes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK        = "ok"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultNotFound  = "not_found"
	ResultLocked    = "locked"
	ResultError     = "error"
)

// Operation label values for member changes.
const (
	OpUpdate = "update"
	OpDelete = "delete"
)

// Metrics owns a private registry so tests can create independent instances.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	memberChanges *prometheus.CounterVec
	contacts      prometheus.Counter
}

// New creates the collectors and registers them together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yord",
			Name:      "registrations_total",
			Help:      "Mailing list signups by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yord",
			Name:      "logins_total",
			Help:      "Administrator login attempts by result.",
		}, []string{"result"}),
		memberChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yord",
			Name:      "member_changes_total",
			Help:      "Member edits and deletions by operation and result.",
		}, []string{"op", "result"}),
		contacts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yord",
			Name:      "contact_queries_total",
			Help:      "Accepted contact form submissions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.registrations,
		m.logins,
		m.memberChanges,
		m.contacts,
	)

	return m
}

// Registration counts a signup attempt.
func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

// Login counts a login attempt.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// MemberChange counts an edit or deletion.
func (m *Metrics) MemberChange(op, result string) {
	if m == nil {
		return
	}
	m.memberChanges.WithLabelValues(op, result).Inc()
}

// Contact counts an accepted contact query.
func (m *Metrics) Contact() {
	if m == nil {
		return
	}
	m.contacts.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
