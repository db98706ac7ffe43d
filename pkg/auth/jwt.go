package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
)

// SessionClaims are the JWT claims carried by a session token. Guest
// sessions are first-class: they get the same token shape with the guest
// flag set and no email.
type SessionClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Guest bool   `json:"guest"`
	jwt.RegisteredClaims
}

// TokenService issues and parses HS256 session tokens. Sessions here are
// stateless by design: there is no refresh flow and nothing to revoke, a
// token simply expires.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a token service. The secret is required; lifetime
// defaults to 24h when non-positive.
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session token secret is required")
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
	}, nil
}

// Issue signs a session token for the given principal.
func (s *TokenService) Issue(subject, name, email string, guest bool) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("token subject is required")
	}
	now := time.Now()
	claims := SessionClaims{
		Name:  name,
		Email: email,
		Guest: guest,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a session token and returns its claims.
func (s *TokenService) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if token == nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid session token", apperrors.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: session token has no subject", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
