// Package session provides credential management for the generation service.
//
// A session holds the API key used to authenticate against the generative
// image service, together with account metadata and an expiry. Sessions are
// stored behind the Store interface; the file backend keeps them as JSON
// files under the user's config directory, which suits CLI usage.
//
// # Usage
//
// Create and persist a session:
//
//	sess, err := session.New(apiKey, &session.Account{Email: "a@b.c"}, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
// Retrieve it later:
//
//	sess, err := store.Get(ctx, sessionID)
//	if sess == nil || sess.IsExpired() {
//	    // not logged in
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Account holds metadata about the authenticated service account.
type Account struct {
	Email string `json:"email"`
	Plan  string `json:"plan,omitempty"`
}

// Session stores generation-service credentials.
type Session struct {
	ID        string    `json:"id"`
	APIKey    string    `json:"api_key"`
	Account   *Account  `json:"account,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 90 * 24 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a new session with the given API key and account.
func New(apiKey string, account *Account, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		APIKey:    apiKey,
		Account:   account,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Anonymous creates a keyless session for unauthenticated usage.
// The generation service serves preview-quality results without a key.
func Anonymous() *Session {
	now := time.Now()
	return &Session{
		ID:        "anonymous-session",
		APIKey:    "",
		ExpiresAt: now.Add(365 * 24 * time.Hour),
		CreatedAt: now,
	}
}
