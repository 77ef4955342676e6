package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/stefando/m2mTokenClaims/internal/app"
	"github.com/stefando/m2mTokenClaims/internal/claims"
)

var application *app.App

// HandleRequest processes one m2m:token_generation event
func HandleRequest(ctx context.Context, inv claims.Invocation) (claims.Result, error) {
	return application.Enricher.Handle(ctx, inv)
}

func main() {
	// Built once per execution environment, before the first invocation
	a, err := app.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	application = a
	defer func() { _ = application.Logger.Sync() }()

	application.Logger.Info("M2M token enricher initialized",
		zap.String("workflow", application.Enricher.Settings().ID),
		zap.String("management_domain", application.Config.Management.Domain))

	lambda.Start(HandleRequest)
}
