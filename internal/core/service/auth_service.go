package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	metrics ports.Metrics
	log     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, m ports.Metrics, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, metrics: orNop(m), log: log}
}

// Register creates a user with the base role and an empty address list and
// returns it together with a fresh session token.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		s.metrics.Registration("error")
		return nil, fmt.Errorf("register: lookup: %w", err)
	}
	if exists {
		s.metrics.Registration("conflict")
		return nil, domain.ErrUserExists
	}

	hash, err := s.hash(ctx, in.Password)
	if err != nil {
		s.metrics.Registration("error")
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     domain.FullName{FirstName: in.FirstName, LastName: in.LastName},
		Role:         domain.RoleUser,
		Addresses:    []domain.Address{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.metrics.Registration("conflict")
			return nil, domain.ErrUserExists
		}
		s.metrics.Registration("error")
		return nil, fmt.Errorf("register: create: %w", err)
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(created))
	if err != nil {
		s.metrics.Registration("error")
		return nil, fmt.Errorf("register: %w", err)
	}

	created.PasswordHash = ""
	s.metrics.Registration("created")
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return &ports.Session{User: created, Token: token}, nil
}

// Login verifies the password of the user identified by username or email.
// An unknown user and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	if (in.Username == "" && in.Email == "") || in.Password == "" {
		s.metrics.Login("invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByLogin(ctx, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.Login("invalid_credentials")
			s.log.Debug().Str("username", in.Username).Str("email", in.Email).Msg("login failed: unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		s.metrics.Login("error")
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	ok, err := s.verify(ctx, in.Password, user.PasswordHash)
	if err != nil {
		s.metrics.Login("error")
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.metrics.Login("invalid_credentials")
		s.log.Debug().Str("user_id", user.ID).Msg("login failed: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		s.metrics.Login("error")
		return nil, fmt.Errorf("login: %w", err)
	}

	user.PasswordHash = ""
	s.metrics.Login("success")
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.Session{User: user, Token: token}, nil
}

func (s *AuthService) hash(ctx context.Context, plain string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.PasswordOp("hash", time.Since(start)) }()
	return s.hasher.Hash(ctx, plain)
}

func (s *AuthService) verify(ctx context.Context, plain, hash string) (bool, error) {
	start := time.Now()
	defer func() { s.metrics.PasswordOp("verify", time.Since(start)) }()
	return s.hasher.Verify(ctx, plain, hash)
}
