// Package token verifies identity-provider session tokens. This service
// never issues tokens of its own; the provider signs with RS256 and we hold
// only the PEM public key.
package token

import (
	"crypto/rsa"
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

var publicKey *rsa.PublicKey

var ErrNotConfigured = errors.New("token verification key not configured")

func Init(pemKey string) error {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return err
	}
	publicKey = key
	return nil
}

// Verify parses and validates a bearer token and returns its claims. The
// subject claim carries the provider's user id.
func Verify(tokenString string) (*Claims, error) {
	if publicKey == nil {
		return nil, ErrNotConfigured
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
