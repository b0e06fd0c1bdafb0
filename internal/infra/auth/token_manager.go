package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
)

const issuer = "playerkits"

// TokenManager issues and validates HS256 admin tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with the shared admin secret.
func NewTokenManager(secret string) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("%w: admin secret must be at least 32 bytes", app_errors.ErrInvalidArguments)
	}
	return &TokenManager{secret: []byte(secret), now: time.Now}, nil
}

// GenerateToken issues a token for subject valid for ttl.
func (tm *TokenManager) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", app_errors.ErrInvalidArguments)
	}
	now := tm.now()
	claims := &Claims{
		Scope: ScopeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// ValidateToken parses tokenString and checks signature, expiry, issuer and scope.
func (tm *TokenManager) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrAuthentication, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrAuthentication, jwt.ErrSignatureInvalid)
	}
	if claims.Scope != ScopeAdmin {
		return nil, fmt.Errorf("%w: scope %q", app_errors.ErrAuthorization, claims.Scope)
	}
	return claims, nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
