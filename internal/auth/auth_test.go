package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stefando/m2mTokenClaims/internal/auth/authtest"
)

func TestVerifier_Verify(t *testing.T) {
	signer := authtest.NewSigner(t)
	other := authtest.NewSigner(t)

	tests := []struct {
		name     string
		audience string
		token    string
		wantErr  bool
	}{
		{
			name:  "valid token without audience check",
			token: signer.Token(nil),
		},
		{
			name:  "bearer prefix any case",
			token: "bEaReR " + signer.Token(nil),
		},
		{
			name:     "matching audience",
			audience: "workflows",
			token:    signer.Token(jwt.MapClaims{"aud": "workflows"}),
		},
		{
			name:     "wrong audience",
			audience: "workflows",
			token:    signer.Token(jwt.MapClaims{"aud": "someone-else"}),
			wantErr:  true,
		},
		{
			name:    "wrong issuer",
			token:   signer.Token(jwt.MapClaims{"iss": "https://evil.example.com"}),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   signer.Token(jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}),
			wantErr: true,
		},
		{
			name:    "signed by another key",
			token:   other.Token(nil),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not-a-jwt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewStaticVerifier(authtest.Issuer, tt.audience, &signer.Key.PublicKey)

			caller, err := v.Verify(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "kinde-workflows", caller.Subject)
			assert.Equal(t, authtest.Issuer, caller.Issuer)
			assert.Greater(t, caller.Expiration, time.Now().Unix())
		})
	}
}

func TestMiddleware(t *testing.T) {
	signer := authtest.NewSigner(t)
	v := NewStaticVerifier(authtest.Issuer, "", &signer.Key.PublicKey)

	var seen *Caller
	h := Middleware(v, zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetCaller(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid token reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signer.Token(nil))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "kinde-workflows", seen.Subject)
	})

	for name, header := range map[string]string{
		"missing header": "",
		"invalid token":  "Bearer " + authtest.NewSigner(t).Token(nil),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
		})
	}
}

func TestUnverifiedIssuer(t *testing.T) {
	signer := authtest.NewSigner(t)

	iss, err := UnverifiedIssuer("Bearer " + signer.Token(jwt.MapClaims{"iss": "https://other.kinde.com"}))
	require.NoError(t, err)
	assert.Equal(t, "https://other.kinde.com", iss)

	_, err = UnverifiedIssuer("abc")
	assert.Error(t, err)

	_, err = UnverifiedIssuer(signer.Token(jwt.MapClaims{"iss": ""}))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStripBearerPrefix(t *testing.T) {
	assert.Equal(t, "abc", stripBearerPrefix("Bearer abc"))
	assert.Equal(t, "abc", stripBearerPrefix("bearer  abc"))
	assert.Equal(t, "abc", stripBearerPrefix("abc"))
	assert.Equal(t, "Bearer", stripBearerPrefix("Bearer"))
}
