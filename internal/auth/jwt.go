package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWT-related errors
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token format")
)

// UnverifiedIssuer reads the iss claim without checking the signature.
// Only use it for diagnostics; Verifier does the real check.
func UnverifiedIssuer(tokenString string) (string, error) {
	tokenString = stripBearerPrefix(tokenString)

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &jwt.RegisteredClaims{})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Issuer == "" {
		return "", ErrInvalidToken
	}
	return claims.Issuer, nil
}

// stripBearerPrefix removes a case-insensitive "Bearer " prefix
func stripBearerPrefix(token string) string {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
