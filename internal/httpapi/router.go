package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stefando/m2mTokenClaims/internal/auth"
	"github.com/stefando/m2mTokenClaims/internal/claims"
)

// M2MTokenGeneratedPath receives the trigger event
const M2MTokenGeneratedPath = "/workflows/m2m-token-generated"

// maxBodyBytes bounds an invocation body
const maxBodyBytes = 1 << 20

// Server holds the handlers' dependencies
type Server struct {
	enricher *claims.Enricher
	logger   *zap.Logger
}

// NewRouter creates and configures the Chi router
func NewRouter(enricher *claims.Enricher, verifier *auth.Verifier, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{enricher: enricher, logger: logger}

	r := chi.NewRouter()

	// Middleware for all routes
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/workflow", s.handleSettings)
	r.Handle("/metrics", promhttp.Handler())

	// Trigger calls must come from the platform
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier, logger))
		r.Post(M2MTokenGeneratedPath, s.handleM2MTokenGenerated)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("took", time.Since(start)))
		})
	}
}
