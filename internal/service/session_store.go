package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medilink-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SessionStore tracks issued token ids so tokens can be revoked before they
// expire. Keys have the form <type>_token:<user id>:<token id>.
type SessionStore interface {
	Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenType jwt.TokenType, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

func sessionKey(tokenType jwt.TokenType, userID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID, tokenID)
}

// Redis

type redisSessionStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSessionStore(client *redis.Client, log *logrus.Logger) SessionStore {
	return &redisSessionStore{client: client, log: log}
}

func (s *redisSessionStore) Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	key := sessionKey(tokenType, userID.String(), tokenID)
	if err := s.client.Set(ctx, key, "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store %s token in Redis: %+v", tokenType, err)
		return err
	}
	return nil
}

func (s *redisSessionStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(tokenType, userID.String(), tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, tokenType jwt.TokenType, tokenID string) error {
	return s.deleteMatching(ctx, sessionKey(tokenType, "*", tokenID))
}

// RevokeAll revokes all tokens for a user (password change, compromised account)
func (s *redisSessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		if err := s.deleteMatching(ctx, sessionKey(tokenType, userID.String(), "*")); err != nil {
			return err
		}
	}
	return nil
}

// deleteMatching walks the keyspace with SCAN so large keyspaces never block Redis.
func (s *redisSessionStore) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warnf("Failed to scan token keys %s: %+v", pattern, err)
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to delete token keys: %+v", err)
		return err
	}
	return nil
}

// In-memory, for single-instance deployments without Redis and for tests.

type memorySessionStore struct {
	cache *cache.Cache
}

func NewMemorySessionStore(c *cache.Cache) SessionStore {
	return &memorySessionStore{cache: c}
}

func (s *memorySessionStore) Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.cache.Set(sessionKey(tokenType, userID.String(), tokenID), "valid", ttl)
	return nil
}

func (s *memorySessionStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	_, found := s.cache.Get(sessionKey(tokenType, userID.String(), tokenID))
	return found, nil
}

func (s *memorySessionStore) Revoke(ctx context.Context, tokenType jwt.TokenType, tokenID string) error {
	prefix := string(tokenType) + "_token:"
	suffix := ":" + tokenID
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix) {
			s.cache.Delete(key)
		}
	}
	return nil
}

func (s *memorySessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for key := range s.cache.Items() {
		if strings.Contains(key, "_token:"+userID.String()+":") {
			s.cache.Delete(key)
		}
	}
	return nil
}
