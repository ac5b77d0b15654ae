package service

import (
	"errors"
	"time"

	"github.com/danielgaio/openbricks/internal/models"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum HMAC secret size accepted at startup.
const minSecretLength = 32

const issuer = "openbricks-auth"

var (
	// ErrInvalidToken indicates a malformed token or bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents the identity assertion embedded in a token. A token is
// valid iff its signature verifies and the current time is before expiry;
// there is no server-side state and no revocation before expiry.
type Claims struct {
	UserID int64         `json:"user_id"`
	Email  string        `json:"email"`
	Role   identity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims to the shared identity value.
func (c *Claims) Identity() identity.Identity {
	return identity.Identity{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Generate(user *models.User) (string, time.Time, error)
	Validate(tokenString string) (*Claims, error)
	TTL() time.Duration
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new TokenService instance. Returns nil if the
// secret is shorter than 32 bytes.
func NewTokenService(secret string, ttl time.Duration) TokenService {
	if len(secret) < minSecretLength {
		return nil
	}
	return &tokenService{secret: []byte(secret), ttl: ttl}
}

func (s *tokenService) Generate(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (s *tokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *tokenService) TTL() time.Duration {
	return s.ttl
}
