// Package session keeps server-side login state keyed by an opaque session
// id, transported to the browser as a signed cookie. The cookie value is an
// HS256 JWT whose subject is the session id; the authenticated flag itself
// lives only on the server, so logout revokes immediately regardless of the
// token's lifetime.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "absensi_session"

// Store holds the authenticated flag per session id.
type Store interface {
	Create(ctx context.Context, id string, ttl time.Duration) error
	Authenticated(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Manager issues, validates, and revokes sessions.
type Manager struct {
	store      Store
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewManager creates a manager; pass nil for time.Now.
func NewManager(store Store, signingKey string, ttl time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, signingKey: []byte(signingKey), ttl: ttl, now: now}
}

// TTL returns the session lifetime, used for the cookie max-age.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a new authenticated session and returns the signed cookie
// value.
func (m *Manager) Issue(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := m.store.Create(ctx, id, m.ttl); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Subject:   id,
		ExpiresAt: jwt.NewNumericDate(m.now().Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(m.now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
}

// Validate reports whether the cookie value names a live authenticated
// session. Any parse or store failure reads as not authenticated.
func (m *Manager) Validate(ctx context.Context, cookieValue string) bool {
	id, err := m.parse(cookieValue)
	if err != nil {
		return false
	}
	ok, err := m.store.Authenticated(ctx, id)
	return err == nil && ok
}

// Revoke destroys the server-side session named by the cookie value.
func (m *Manager) Revoke(ctx context.Context, cookieValue string) {
	id, err := m.parse(cookieValue)
	if err != nil {
		return
	}
	_ = m.store.Delete(ctx, id)
}

func (m *Manager) parse(cookieValue string) (string, error) {
	if cookieValue == "" {
		return "", errors.New("empty token")
	}
	parsed, err := jwt.ParseWithClaims(cookieValue, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
