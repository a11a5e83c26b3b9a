package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idive/internal/domain"
)

func newTestVerifier(t *testing.T) (*SupabaseJWTVerifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kf := func(*jwt.Token) (interface{}, error) { return &key.PublicKey, nil }
	return NewJWTVerifierWithKeyfunc(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims *Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "authenticated",
	}
}

func TestVerifyToken_Valid(t *testing.T) {
	v, key := newTestVerifier(t)

	claims, err := v.VerifyToken(signRS256(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.GetUserID())
}

func TestVerifyToken_Rejects(t *testing.T) {
	v, key := newTestVerifier(t)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	anon := validClaims()
	anon.Role = "anon"

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":    signRS256(t, key, expired),
		"anonymous":  signRS256(t, key, anon),
		"no subject": signRS256(t, key, noSubject),
		"no expiry":  signRS256(t, key, noExpiry),
		"hmac":       hmacToken,
		"garbage":    "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.VerifyToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
