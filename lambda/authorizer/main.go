package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/stefando/m2mTokenClaims/internal/auth"
	"github.com/stefando/m2mTokenClaims/internal/config"
	"github.com/stefando/m2mTokenClaims/internal/logger"
)

// newHandler builds a TOKEN authorizer that admits platform-signed webhook calls
func newHandler(v *auth.Verifier, logger *zap.Logger) func(context.Context, events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	return func(ctx context.Context, event events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
		log := logger.With(zap.String("method_arn", event.MethodArn))

		caller, err := v.Verify(ctx, event.AuthorizationToken)
		if err != nil {
			issuer, _ := auth.UnverifiedIssuer(event.AuthorizationToken)
			log.Warn("Authorization failed", zap.String("claimed_issuer", issuer), zap.Error(err))
			return events.APIGatewayCustomAuthorizerResponse{
				PrincipalID:    "unauthorized",
				PolicyDocument: generatePolicy("Deny", event.MethodArn),
			}, nil
		}

		log.Debug("Authorization successful", zap.String("subject", caller.Subject))
		return events.APIGatewayCustomAuthorizerResponse{
			PrincipalID:    caller.Subject,
			PolicyDocument: generatePolicy("Allow", event.MethodArn),
			Context: map[string]interface{}{
				"issuer": caller.Issuer,
			},
		}, nil
	}
}

func generatePolicy(effect, resource string) events.APIGatewayCustomAuthorizerPolicy {
	return events.APIGatewayCustomAuthorizerPolicy{
		Version: "2012-10-17",
		Statement: []events.IAMPolicyStatement{{
			Action:   []string{"execute-api:Invoke"},
			Effect:   effect,
			Resource: []string{resource},
		}},
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadAuth()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	v, err := auth.NewVerifier(ctx, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		zl.Fatal("Failed to discover issuer keys", zap.Error(err))
	}

	lambda.Start(newHandler(v, zl))
}
