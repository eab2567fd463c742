// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is prepended to every session key.
const DefaultRedisPrefix = "yord:session:"

// RedisStore keeps session data in Redis with a TTL matching the session expiry.
// It implements scs.Store and scs.CtxStore.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// DialRedis parses rawURL, connects and pings the server.
func DialRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	if rawURL == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", SanitizeRedisURL(rawURL), err)
	}

	return client, nil
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "redis://<invalid>"
	}
	return u.Redacted()
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

// FindCtx returns the data for a session token.
func (s *RedisStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// CommitCtx stores session data until expiry.
func (s *RedisStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.DeleteCtx(ctx, token)
	}
	return s.client.Set(ctx, s.key(token), b, ttl).Err()
}

// DeleteCtx removes a session token.
func (s *RedisStore) DeleteCtx(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// Find implements scs.Store.
func (s *RedisStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

// Commit implements scs.Store.
func (s *RedisStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

// Delete implements scs.Store.
func (s *RedisStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}
