// Package session issues and verifies the signed tokens that back the
// session cookie.
//
// A token is an HS256 JWT whose payload is {id, username, email, role, iat, exp}.
// The server keeps no session table: signature and expiry alone decide
// whether a token is valid.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/platform/internal/core/domain"
)

// TTL is the lifetime of every issued token.
const TTL = 24 * time.Hour

var (
	ErrInvalidSignature = errors.New("session: invalid token signature")
	ErrExpired          = errors.New("session: token expired")
	ErrMalformed        = errors.New("session: malformed token")
)

type tokenClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session: secret must not be empty")
	}
	return &Manager{secret: []byte(secret), ttl: TTL, now: time.Now}, nil
}

// Issue signs claims. IssuedAt and ExpiresAt are overwritten from the
// manager's clock.
func (m *Manager) Issue(c domain.Claims) (string, error) {
	now := m.now().Truncate(time.Second)
	tc := tokenClaims{
		ID:       c.ID,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// The error is one of ErrInvalidSignature, ErrExpired or ErrMalformed.
func (m *Manager) Verify(token string) (*domain.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	out := &domain.Claims{
		ID:       tc.ID,
		Username: tc.Username,
		Email:    tc.Email,
		Role:     tc.Role,
	}
	if tc.IssuedAt != nil {
		out.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		out.ExpiresAt = tc.ExpiresAt.Time
	}
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
