package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Middleware rejects requests without a valid platform-signed bearer token
// and stores the Caller in the request context
func Middleware(v *Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Rejected webhook call", zap.Error(ErrMissingToken))
				unauthorized(w)
				return
			}

			caller, err := v.Verify(r.Context(), authHeader)
			if err != nil {
				issuer, _ := UnverifiedIssuer(authHeader)
				logger.Warn("Rejected webhook call", zap.String("claimed_issuer", issuer), zap.Error(err))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
