package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:session:"

// ErrCollision is returned by Create when the session ID is taken.
var ErrCollision = errors.New("session: id collision")

// RedisStore keeps one JSON record per session. Keys expire with the
// session, so Redis does the cleanup.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

// encode returns the record for s and how long Redis should keep it.
func encode(s Session) ([]byte, time.Duration, error) {
	if s.SessionID == "" {
		return nil, 0, errors.New("session: missing session_id")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, 0, fmt.Errorf("session: encode: %w", err)
	}
	return data, time.Until(s.ExpiresAt), nil
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.UserID == "" {
		return errors.New("session: missing user_id")
	}
	data, ttl, err := encode(s)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return errors.New("session: expires_at must be in the future")
	}

	created, err := r.client.SetNX(ctx, key(s.SessionID), data, ttl).Result()
	switch {
	case err != nil:
		return fmt.Errorf("session: create: %w", err)
	case !created:
		return ErrCollision
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	s := new(Session)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return s, nil
}

// Update rewrites s with its remaining lifetime. A session already past
// ExpiresAt is removed rather than extended.
func (r *RedisStore) Update(ctx context.Context, s Session) error {
	data, ttl, err := encode(s)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return r.Delete(ctx, s.SessionID)
	}
	return r.client.Set(ctx, key(s.SessionID), data, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, key(sessionID)).Err()
}
