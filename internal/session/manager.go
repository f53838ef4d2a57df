// Package session tracks which browser belongs to which authenticated
// user. A session is a signed token in a cookie plus a server-side
// record keyed by the token's jti; ending the session deletes the
// record, which invalidates the cookie no matter who still holds it.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack/fintrack/internal/domain/user"
)

var ErrNoSession = errors.New("no active session")

// Record is what the store keeps per live session.
type Record struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	TokenHash string    `json:"tokenHash"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordStore is the server-side session table. Get returns
// ErrNoSession for unknown or expired ids.
type RecordStore interface {
	Save(ctx context.Context, jti string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, jti string) (Record, error)
	Delete(ctx context.Context, jti string) error
}

// Identity is what handlers get back for a valid session token.
type Identity struct {
	UserID string
	Name   string
}

// Session is handed to the login handler to set the cookie.
type Session struct {
	Token     string
	UserID    string
	Name      string
	ExpiresAt time.Time // zero when sessions do not expire
}

type Manager struct {
	tokens *TokenManager
	store  RecordStore
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration, store RecordStore) *Manager {
	return &Manager{
		tokens: NewTokenManager(secret, ttl),
		store:  store,
		ttl:    ttl,
	}
}

// TTL reports the configured session lifetime (zero = unbounded).
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start issues a token for the user and persists its record.
func (m *Manager) Start(ctx context.Context, u user.User) (Session, error) {
	raw, jti, expiresAt, err := m.tokens.Generate(u.ID, u.Name)

	if err != nil {
		return Session{}, err
	}

	rec := Record{
		UserID:    u.ID,
		Name:      u.Name,
		TokenHash: m.tokens.Hash(raw),
		CreatedAt: time.Now().UTC(),
	}

	err = m.store.Save(ctx, jti, rec, m.ttl)

	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     raw,
		UserID:    u.ID,
		Name:      u.Name,
		ExpiresAt: expiresAt,
	}, nil
}

// Current resolves a token to the identity it was started for.
// Any verification or lookup failure collapses to ErrNoSession; the
// middleware only ever redirects to login.
func (m *Manager) Current(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoSession
	}

	claims, err := m.tokens.Verify(token)

	if err != nil {
		return Identity{}, ErrNoSession
	}

	rec, err := m.store.Get(ctx, claims.JTI)

	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Identity{}, ErrNoSession
		}

		return Identity{}, err
	}

	// a forged cookie reusing a live jti fails here
	if rec.TokenHash != m.tokens.Hash(token) {
		return Identity{}, ErrNoSession
	}

	return Identity{UserID: rec.UserID, Name: rec.Name}, nil
}

// End deletes the session record. Invalid tokens are a no-op so logout
// is idempotent.
func (m *Manager) End(ctx context.Context, token string) error {
	claims, err := m.tokens.Verify(token)

	if err != nil {
		return nil
	}

	return m.store.Delete(ctx, claims.JTI)
}
