// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yordsite/yord/internal/metrics"
	"github.com/yordsite/yord/internal/middleware"
	"github.com/yordsite/yord/internal/render"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/session"
	"github.com/yordsite/yord/internal/testutil"
	"github.com/yordsite/yord/web"
)

const (
	testAdminEmail    = "admin@yord.test"
	testAdminPassword = "correct horse battery staple"
	testPageSize      = 2
)

// testEnv is a running site backed by a temporary database.
type testEnv struct {
	members *service.MemberService
	users   *service.UserService
	server  *httptest.Server
	client  *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := session.New(db, true)
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sm,
	})
	require.NoError(t, err)

	members := service.NewMemberService(db, testPageSize)
	users := service.NewUserService(db)
	_, err = users.Create(context.Background(), testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: 1000,
		IPBurst:     1000,
	})

	router := NewRouter(Deps{
		DB:              db,
		SessionManager:  sm,
		Renderer:        renderer,
		Members:         members,
		Users:           users,
		LoginProtection: lp,
		FormLimiter:     middleware.NewPublicRateLimiter(1000, 1000),
		Metrics:         metrics.New(),
		CSRF:            middleware.DefaultCSRFConfig([]byte(strings.Repeat("k", 32)), true, ""),
		IsDevelopment:   true,
		StaticFS:        web.Static(),
		Version:         "test",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		members: members,
		users:   users,
		server:  srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// do sends a request and returns the status, the Location header and the body.
func (e *testEnv) do(t *testing.T, req *http.Request) (int, string, string) {
	t.Helper()

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func (e *testEnv) get(t *testing.T, path string) (int, string, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(t, err)
	return e.do(t, req)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	status, location, _ := e.post(t, RouteLogin, url.Values{
		"username": {testAdminEmail},
		"password": {testAdminPassword},
	})
	require.Equal(t, http.StatusSeeOther, status)
	require.Equal(t, RouteMembers, location)
}
