package ports

import (
	"context"

	"github.com/storefront/platform/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput identifies a user by username or email.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Session is the result of a successful register or login: the stored user
// and the signed token to hand back as a cookie.
type Session struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// TokenIssuer signs session claims.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
}

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
