package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenManager_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenManager("short")
	assert.ErrorIs(t, err, app_errors.ErrInvalidArguments)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm, err := NewTokenManager(testSecret)
	require.NoError(t, err)

	token, err := tm.GenerateToken("operator", time.Minute)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, ScopeAdmin, claims.Scope)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm, err := NewTokenManager(testSecret)
	require.NoError(t, err)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.GenerateToken("operator", time.Minute)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, app_errors.ErrAuthentication)
	assert.True(t, IsExpired(err))
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	issuerTM, err := NewTokenManager(testSecret)
	require.NoError(t, err)
	verifier, err := NewTokenManager("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	token, err := issuerTM.GenerateToken("operator", time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, app_errors.ErrAuthentication)
}

func TestTokenManager_RejectsWrongScope(t *testing.T) {
	tm, err := NewTokenManager(testSecret)
	require.NoError(t, err)

	claims := &Claims{
		Scope: "kits:read",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "viewer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, app_errors.ErrAuthorization)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	tm, err := NewTokenManager(testSecret)
	require.NoError(t, err)

	claims := &Claims{Scope: ScopeAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, app_errors.ErrAuthentication)
}
