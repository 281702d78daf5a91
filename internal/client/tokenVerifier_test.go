package client

import (
	"testing"
	"time"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier_ResolvesEmail(t *testing.T) {
	verifier := NewJWTVerifier(&config.Auth{JWTSecret: "test-secret"})

	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	email, err := verifier.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestJWTVerifier_RejectsWrongSecret(t *testing.T) {
	verifier := NewJWTVerifier(&config.Auth{JWTSecret: "test-secret"})

	tokenString := signToken(t, "other-secret", jwt.MapClaims{
		"email": "a@x.com",
	})

	_, err := verifier.Verify(tokenString)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Auth))
}

func TestJWTVerifier_RejectsExpiredToken(t *testing.T) {
	verifier := NewJWTVerifier(&config.Auth{JWTSecret: "test-secret"})

	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})

	_, err := verifier.Verify(tokenString)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Auth))
}

func TestJWTVerifier_RejectsMissingEmailClaim(t *testing.T) {
	verifier := NewJWTVerifier(&config.Auth{JWTSecret: "test-secret"})

	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "user-1",
	})

	_, err := verifier.Verify(tokenString)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Auth))
}

func TestJWTVerifier_RejectsGarbage(t *testing.T) {
	verifier := NewJWTVerifier(&config.Auth{JWTSecret: "test-secret"})

	_, err := verifier.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Auth))
}
