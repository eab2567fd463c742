// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxLockoutDuration caps the exponential lockout backoff.
const maxLockoutDuration = 24 * time.Hour

// LoginProtection combines per-IP rate limiting with per-account lockout.
type LoginProtection struct {
	ipLimiters *limiterCache[string]

	failedAttempts map[string]*loginAttempt
	attemptsMu     sync.Mutex
	lastPrune      time.Time

	maxFailedAttempts int
	lockoutDuration   time.Duration
	attemptWindow     time.Duration

	now func() time.Time
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is login POSTs per second per IP (default: 0.5)
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting (default: 5)
	IPBurst int
	// MaxFailedAttempts before account lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is base lockout time, doubles with each lockout (default: 15 minutes)
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts (default: 15 minutes)
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns the production defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a login protection instance. Zero config
// values fall back to the defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}

	return &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		failedAttempts:    make(map[string]*loginAttempt),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
		now:               time.Now,
	}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAccountLocked reports whether the account is locked and for how long.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	attempt, exists := lp.failedAttempts[accountKey(email)]
	if !exists {
		return false, 0
	}

	now := lp.now()
	if now.Before(attempt.lockedUntil) {
		return true, attempt.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailedAttempt records a failed login. It returns true and the lock
// duration when this failure locked the account.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	now := lp.now()
	lp.pruneLocked(now)

	key := accountKey(email)
	attempt, exists := lp.failedAttempts[key]
	if !exists || now.Sub(attempt.firstFailed) > lp.attemptWindow {
		if !exists {
			attempt = &loginAttempt{}
			lp.failedAttempts[key] = attempt
		}
		attempt.count = 1
		attempt.firstFailed = now
		return lp.lockIfExceeded(key, attempt, now)
	}

	attempt.count++
	return lp.lockIfExceeded(key, attempt, now)
}

func (lp *LoginProtection) lockIfExceeded(key string, attempt *loginAttempt, now time.Time) (bool, time.Duration) {
	if attempt.count < lp.maxFailedAttempts {
		return false, 0
	}

	lockDuration := lp.lockoutDuration
	for i := 0; i < attempt.lockouts && lockDuration < maxLockoutDuration; i++ {
		lockDuration *= 2
	}
	lockDuration = min(lockDuration, maxLockoutDuration)

	attempt.lockedUntil = now.Add(lockDuration)
	attempt.lockouts++
	attempt.count = 0

	slog.Warn("account locked due to failed attempts",
		"email", key,
		"lockouts", attempt.lockouts,
		"duration", lockDuration,
	)
	return true, lockDuration
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()
	delete(lp.failedAttempts, accountKey(email))
}

// RemainingAttempts returns the number of failures left before lockout.
func (lp *LoginProtection) RemainingAttempts(email string) int {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	attempt, exists := lp.failedAttempts[accountKey(email)]
	if !exists || lp.now().Sub(attempt.firstFailed) > lp.attemptWindow {
		return lp.maxFailedAttempts
	}
	return max(lp.maxFailedAttempts-attempt.count, 0)
}

// pruneLocked drops expired entries at most once per attempt window.
// Callers must hold attemptsMu.
func (lp *LoginProtection) pruneLocked(now time.Time) {
	if now.Sub(lp.lastPrune) < lp.attemptWindow {
		return
	}
	lp.lastPrune = now

	for key, attempt := range lp.failedAttempts {
		if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > lp.attemptWindow {
			delete(lp.failedAttempts, key)
		}
	}
}

// Middleware rate limits login POSTs per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if !lp.ipLimiters.get(ip).Allow() {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
