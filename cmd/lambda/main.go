package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/stefando/m2mTokenClaims/internal/app"
)

// Global variables to hold initialized services
var (
	application *app.App
	router      http.Handler
)

// lambdaHandler adapts API Gateway events to the chi router
func lambdaHandler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return serveAPIGateway(ctx, router, req, application.Logger), nil
}

func main() {
	ctx := context.Background()

	// Loaded once per execution environment, before the first invocation
	a, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	application = a
	defer func() { _ = application.Logger.Sync() }()

	r, err := application.Router(ctx)
	if err != nil {
		application.Logger.Fatal("Failed to build router", zap.Error(err))
	}
	router = r

	application.Logger.Info("Webhook initialized", zap.String("issuer", application.Config.Auth.Issuer))
	lambda.Start(lambdaHandler)
}
