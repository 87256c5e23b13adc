package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	require.NoError(t, Init(string(pemKey)))
	return key
}

func sign(t *testing.T, method jwt.SigningMethod, signingKey interface{}, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

func TestVerify(t *testing.T) {
	key := initTestKey(t)

	valid := jwt.RegisteredClaims{
		Subject:   "user_abc",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	claims, err := Verify(sign(t, jwt.SigningMethodRS256, key, valid))
	require.NoError(t, err)
	assert.Equal(t, "user_abc", claims.Subject)
}

func TestVerifyRejectsExpired(t *testing.T) {
	key := initTestKey(t)

	expired := jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	_, err := Verify(sign(t, jwt.SigningMethodRS256, key, expired))
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	key := initTestKey(t)

	anonymous := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	_, err := Verify(sign(t, jwt.SigningMethodRS256, key, anonymous))
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	initTestKey(t)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	_, err = Verify(sign(t, jwt.SigningMethodRS256, other, claims))
	assert.Error(t, err)
}

func TestVerifyRejectsHMAC(t *testing.T) {
	initTestKey(t)

	claims := jwt.RegisteredClaims{
		Subject:   "user_abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	_, err := Verify(sign(t, jwt.SigningMethodHS256, []byte("shared-secret"), claims))
	assert.Error(t, err)
}
