package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stefando/m2mTokenClaims/internal/auth"
	"github.com/stefando/m2mTokenClaims/internal/claims"
	"github.com/stefando/m2mTokenClaims/internal/config"
	"github.com/stefando/m2mTokenClaims/internal/httpapi"
	"github.com/stefando/m2mTokenClaims/internal/logger"
	"github.com/stefando/m2mTokenClaims/internal/management"
	"github.com/stefando/m2mTokenClaims/internal/secrets"
	"github.com/stefando/m2mTokenClaims/internal/workflow"
)

// managementTimeout bounds every management API round trip, token exchange included
const managementTimeout = 10 * time.Second

// SecretResolver looks up the management client secret by ARN
type SecretResolver interface {
	ClientSecret(ctx context.Context, arn string) (string, error)
}

// App holds the services shared by every entry point
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Enricher *claims.Enricher
}

// Bootstrap loads configuration and builds the enricher
func Bootstrap(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	enricher, err := NewEnricher(ctx, cfg, nil, log)
	if err != nil {
		return nil, err
	}

	return &App{Config: cfg, Logger: log, Enricher: enricher}, nil
}

// NewEnricher wires the management API factory into a claims enricher.
// A nil resolver falls back to Secrets Manager when an ARN is configured.
func NewEnricher(ctx context.Context, cfg *config.Config, resolver SecretResolver, log *zap.Logger) (*claims.Enricher, error) {
	secret, err := clientSecret(ctx, cfg.Management, resolver)
	if err != nil {
		return nil, err
	}

	factory := management.NewFactory(cfg.Management.Domain, management.Credentials{
		ClientID:     cfg.Management.ClientID,
		ClientSecret: secret,
		Audience:     cfg.Management.Audience,
	}, &http.Client{Timeout: managementTimeout})

	return claims.NewEnricher(workflow.M2MTokenGeneration, claims.FromFactory(factory), log)
}

// Router builds the webhook router, discovering the caller issuer's keys
func (a *App) Router(ctx context.Context) (*chi.Mux, error) {
	if err := a.Config.ValidateHTTP(); err != nil {
		return nil, err
	}

	verifier, err := auth.NewVerifier(ctx, a.Config.Auth.Issuer, a.Config.Auth.Audience)
	if err != nil {
		return nil, err
	}

	return httpapi.NewRouter(a.Enricher, verifier, a.Logger), nil
}

func clientSecret(ctx context.Context, cfg config.ManagementConfig, resolver SecretResolver) (string, error) {
	if cfg.ClientSecretARN == "" {
		return cfg.ClientSecret, nil
	}

	if resolver == nil {
		r, err := secrets.NewDefaultResolver(ctx)
		if err != nil {
			return "", err
		}
		resolver = r
	}

	secret, err := resolver.ClientSecret(ctx, cfg.ClientSecretARN)
	if err != nil {
		return "", fmt.Errorf("resolving management client secret: %w", err)
	}
	return secret, nil
}
