// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/yordsite/yord/internal/auth"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/store"
)

// fakeUsers resolves ids present in the map.
type fakeUsers map[int64]store.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (store.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return store.User{}, service.ErrUserNotFound
}

// identityRecorder captures the identity seen by the final handler.
func identityRecorder(got *auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// withSessionUser builds a handler chain that first stores userID in the
// session, then runs Identify.
func withSessionUser(sm *scs.SessionManager, users UserLookup, userID int64, got *auth.Identity) http.Handler {
	identify := Identify(sm, users)(identityRecorder(got))
	return sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID != 0 {
			sm.Put(r.Context(), SessionKeyUserID, userID)
		}
		identify.ServeHTTP(w, r)
	}))
}

func TestIdentify(t *testing.T) {
	users := fakeUsers{1: {ID: 1, Email: "admin@example.com"}}

	tests := []struct {
		name      string
		sessionID int64
		want      auth.Identity
	}{
		{"no session", 0, auth.Anonymous{}},
		{"known user", 1, auth.Authenticated{UserID: 1}},
		{"deleted user", 99, auth.Anonymous{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := scs.New()
			var got auth.Identity
			h := withSessionUser(sm, users, tt.sessionID, &got)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got != tt.want {
				t.Errorf("identity = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAuth(next)

	t.Run("anonymous redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/members", nil)
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Authenticated{UserID: 1}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production enables HSTS", false, true},
		{"development disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
			if rec.Header().Get("Content-Security-Policy") == "" {
				t.Error("missing Content-Security-Policy")
			}
			if rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", rec.Header().Get("X-Frame-Options"))
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing nosniff")
			}
		})
	}
}

func TestStripTrailingSlash(t *testing.T) {
	h := StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantLoc  string
	}{
		{http.MethodGet, "/", http.StatusOK, ""},
		{http.MethodGet, "/members", http.StatusOK, ""},
		{http.MethodGet, "/members/?page=2", http.StatusMovedPermanently, "/members?page=2"},
		{http.MethodPost, "/register/", http.StatusPermanentRedirect, "/register"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
		}
		if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
			t.Errorf("%s %s: Location = %q, want %q", tt.method, tt.path, loc, tt.wantLoc)
		}
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	key := []byte("12345678901234567890123456789012")
	h := CSRF(DefaultCSRFConfig(key, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cross := httptest.NewRequest(http.MethodPost, "/register", nil)
	cross.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, cross)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-site POST status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	same := httptest.NewRequest(http.MethodPost, "/register", nil)
	same.Header.Set("Sec-Fetch-Site", "same-origin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, same)
	if rec.Code != http.StatusOK {
		t.Errorf("same-origin POST status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDefaultCSRFConfig(t *testing.T) {
	key := []byte("12345678901234567890123456789012")

	dev := DefaultCSRFConfig(key, true, "localhost:8080")
	if len(dev.TrustedOrigins) != 1 || dev.TrustedOrigins[0] != "localhost:8080" {
		t.Errorf("dev TrustedOrigins = %v", dev.TrustedOrigins)
	}

	prod := DefaultCSRFConfig(key, false, "localhost:8080")
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("production TrustedOrigins = %v, want none", prod.TrustedOrigins)
	}
}
