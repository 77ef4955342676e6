// Package authtest mints platform-style signed tokens for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "https://acme.kinde.com"

// Signer holds an RSA key that a static Verifier can trust
type Signer struct {
	t   testing.TB
	Key *rsa.PrivateKey
}

func NewSigner(t testing.TB) *Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return &Signer{t: t, Key: key}
}

// Token signs RS256 claims, filling iss/sub/exp/iat when absent
func (s *Signer) Token(claims jwt.MapClaims) string {
	s.t.Helper()
	now := time.Now()
	defaults := jwt.MapClaims{
		"iss": Issuer,
		"sub": "kinde-workflows",
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
	}
	for k, v := range claims {
		defaults[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, defaults)
	token.Header["kid"] = "test"
	signed, err := token.SignedString(s.Key)
	if err != nil {
		s.t.Fatalf("signing token: %v", err)
	}
	return signed
}
