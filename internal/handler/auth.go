// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/yordsite/yord/internal/auth"
	"github.com/yordsite/yord/internal/metrics"
	"github.com/yordsite/yord/internal/middleware"
	"github.com/yordsite/yord/internal/render"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/validation"
)

// loginData is the view model of the login page.
type loginData struct {
	LoginFailed  bool
	AttemptsLeft int
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	users           *service.UserService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	metrics         *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable account lockout.
func NewAuthHandler(users *service.UserService, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		users:           users,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		metrics:         m,
	}
}

// redirectIfAuthenticated sends logged-in administrators to the mailing list.
func redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := auth.UserID(r.Context()); ok {
		http.Redirect(w, r, RouteMembers, http.StatusSeeOther)
		return true
	}
	return false
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if redirectIfAuthenticated(w, r) {
		return
	}
	h.renderLogin(w, r, http.StatusOK, render.TemplateData{})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data render.TemplateData) {
	data.Title = "Log in"
	if data.Data == nil {
		data.Data = loginData{}
	}
	renderPage(w, r, h.renderer, status, templateLogin, data)
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if redirectIfAuthenticated(w, r) {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	values := formValues(r, "username", "password", "remember_me")
	form := map[string]string{"username": values["username"], "remember_me": values["remember_me"]}

	if errs := validation.Login.Validate(values); !errs.Empty() {
		h.metrics.Login(metrics.ResultInvalid)
		h.renderLogin(w, r, http.StatusOK, render.TemplateData{Form: form, Errors: errs})
		return
	}

	email := validation.Normalize(values["username"])
	failed := render.TemplateData{Form: form, Data: loginData{LoginFailed: true}}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "email", email)
			h.metrics.Login(metrics.ResultLocked)
			failed.Flash = lockedMessage(remaining)
			failed.FlashType = "error"
			h.renderLogin(w, r, http.StatusTooManyRequests, failed)
			return
		}
	}

	user, err := h.users.Authenticate(r.Context(), email, values["password"])
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
			h.metrics.Login(metrics.ResultError)
			h.renderLogin(w, r, http.StatusInternalServerError, failed)
			return
		}

		slog.Info("unsuccessful login attempt", "email", email)
		h.metrics.Login(metrics.ResultInvalid)
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				failed.Flash = lockedMessage(lockDuration)
				failed.FlashType = "error"
			} else {
				failed.Data = loginData{LoginFailed: true, AttemptsLeft: h.loginProtection.RemainingAttempts(email)}
			}
		}
		h.renderLogin(w, r, http.StatusOK, failed)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.RememberMe(r.Context(), values["remember_me"] == "on")
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID)
	h.metrics.Login(metrics.ResultOK)
	http.Redirect(w, r, RouteMembers, http.StatusSeeOther)
}

// Logout destroys the session and returns to the signup page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if userID, ok := auth.UserID(r.Context()); ok {
		if err := h.users.SetAuthenticated(r.Context(), userID, false); err != nil {
			slog.Error("failed to clear login state", "error", err, "user_id", userID)
		}
		slog.Info("user logged out", "user_id", userID)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

func lockedMessage(d time.Duration) string {
	return fmt.Sprintf("Too many failed login attempts. Please try again in %s.", formatDuration(d))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
