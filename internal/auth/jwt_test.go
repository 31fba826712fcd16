package auth

import (
	"testing"
	"time"

	"crediwise/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(config.Config{JWTSecret: secret, JWTExpiresIn: ttl})
}

func TestTokenService_RoundTrip(t *testing.T) {
	s := newService("secret", time.Hour)

	token, err := s.GenerateToken("5c0a5f7e-1111-4e2b-9a57-6a7e2d0c9d11")
	require.NoError(t, err)

	userID, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5c0a5f7e-1111-4e2b-9a57-6a7e2d0c9d11", userID)
}

func TestTokenService_RejectsEmptyUser(t *testing.T) {
	_, err := newService("secret", time.Hour).GenerateToken("")
	assert.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	s := newService("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issued }

	token, err := s.GenerateToken("u1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := newService("one", time.Hour).GenerateToken("u1")
	require.NoError(t, err)

	_, err = newService("two", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenService_RejectsForeignIssuer(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newService("secret", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestTokenService_RejectsUnsignedTokens(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "u1", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newService("secret", time.Hour).ParseToken(token)
	assert.Error(t, err)
}
