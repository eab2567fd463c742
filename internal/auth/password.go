// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth holds administrator credentials handling and the request
// identity model.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// encodedHash is the decoded form of $argon2id$v=19$m=...,t=...,p=...$salt$key.
type encodedHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func decodeHash(s string) (encodedHash, error) {
	var h encodedHash

	parts := strings.Split(s, "$")
	if len(parts) != 6 {
		return h, ErrMalformedHash
	}
	if parts[1] != "argon2id" {
		return h, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return h, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return h, fmt.Errorf("%w: version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return h, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return h, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return h, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	return h, nil
}

// HashPassword creates an Argon2id hash of the password using the current parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// CheckPassword verifies a password against an Argon2id hash in constant time.
// The hash's own parameters are used, so older hashes keep verifying.
func CheckPassword(password, hash string) (bool, error) {
	h, err := decodeHash(hash)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(key, h.key) == 1, nil
}

// NeedsRehash reports whether hash was produced with parameters other than
// the current ones and should be replaced after the next successful login.
func NeedsRehash(hash string) bool {
	h, err := decodeHash(hash)
	if err != nil {
		return true
	}
	return h.memory != Argon2Memory || h.time != Argon2Time || h.threads != Argon2Threads
}
