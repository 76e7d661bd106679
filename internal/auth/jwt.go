// Package auth issues and validates identity tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

// MinKeyLength is the minimum HS256 signing key length in bytes.
const MinKeyLength = 32

// Claims are the JWT claims of an identity token.
type Claims struct {
	Roles     []string `json:"roles,omitempty"`
	PIDScopes []string `json:"pid_scopes,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 identity tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

// NewTokenService creates a token service. The key must be at least MinKeyLength bytes.
func NewTokenService(signingKey, issuer, audience string) (*TokenService, error) {
	if len(signingKey) < MinKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes", MinKeyLength)
	}
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}, nil
}

// Issue signs a token for the subject.
func (s *TokenService) Issue(subject string, roles, pidScopes []string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required: %w", domain.ErrValidation)
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Roles:     roles,
		PIDScopes: pidScopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token and returns the identity it carries.
// Every failure wraps domain.ErrUnauthenticated.
func (s *TokenService) Validate(tokenString string) (identity.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Identity{}, fmt.Errorf("token has expired: %w", domain.ErrUnauthenticated)
		}
		return identity.Identity{}, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return identity.Identity{}, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthenticated)
	}
	return identity.New(claims.Subject, claims.Roles, claims.PIDScopes), nil
}
