// Package service implements token issuance, verification, and the
// credential lifecycle for the auth platform.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgaio/openbricks/internal/models"
	"github.com/danielgaio/openbricks/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates a duplicate registration.
	ErrEmailTaken = errors.New("email already registered")
)

// AuthResult bundles the outcome of an operation that issues a token.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// AuthService owns registration, login, and token refresh.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, token string) (*AuthResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenService
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users repository.UserRepository, tokens TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	if name == "" {
		// Match the platform default: derive a display name from the email.
		name = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         models.DefaultRole,
	}

	// The store's uniqueness constraint arbitrates concurrent registrations
	// for the same email; the loser observes ErrEmailTaken.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a hash comparison so unknown emails cost the same as
			// wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// The token embeds the role stored right now, not whatever an earlier
	// token carried.
	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	// Reload the user so a role change since issuance lands in the new token.
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// dummyHash is a bcrypt hash of an unguessable value, compared against when
// the email is unknown to keep login timing uniform.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("openbricks-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
