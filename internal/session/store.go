package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the session does not exist or expired.
var ErrNotFound = errors.New("session: not found")

// Session is the server-side record behind the session cookie.
// It points at a user; it holds no credentials.
type Session struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	Method            string    `json:"method"` // "password" or the oauth provider name
	CreatedAt         time.Time `json:"created_at"`
	AbsoluteExpiresAt time.Time `json:"absolute_expires_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// Expired reports whether s is past either expiry at now.
func (s Session) Expired(now time.Time) bool {
	if now.After(s.ExpiresAt) {
		return true
	}
	return !s.AbsoluteExpiresAt.IsZero() && now.After(s.AbsoluteExpiresAt)
}

// New builds a session for userID with a fresh ID, valid for ttl.
func New(userID string, method string, ttl time.Duration) (Session, error) {
	id, err := GenerateID()
	if err != nil {
		return Session{}, err
	}
	now := time.Now()
	return Session{
		SessionID:         id,
		UserID:            userID,
		Method:            method,
		CreatedAt:         now,
		AbsoluteExpiresAt: now.Add(ttl),
		ExpiresAt:         now.Add(ttl),
	}, nil
}

type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
