package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/tidwall/gjson"
)

// ErrEmptySecret is returned when the secret exists but has no usable value
var ErrEmptySecret = errors.New("secret has no value")

// SecretsManagerAPI is the subset of the Secrets Manager client we call
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver reads the management client secret from Secrets Manager
type Resolver struct {
	client SecretsManagerAPI
}

// NewResolver wraps an existing Secrets Manager client
func NewResolver(client SecretsManagerAPI) *Resolver {
	return &Resolver{client: client}
}

// NewDefaultResolver loads the default AWS config (env, shared files, Lambda role)
func NewDefaultResolver(ctx context.Context) (*Resolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewResolver(secretsmanager.NewFromConfig(cfg)), nil
}

// ClientSecret returns the secret string stored under arn. A JSON secret
// is read from its "client_secret" field.
func (r *Resolver) ClientSecret(ctx context.Context, arn string) (string, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(arn),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", arn, err)
	}

	value := strings.TrimSpace(aws.ToString(out.SecretString))
	if gjson.Valid(value) && gjson.Parse(value).IsObject() {
		value = gjson.Get(value, "client_secret").String()
	}
	if value == "" {
		return "", fmt.Errorf("%s: %w", arn, ErrEmptySecret)
	}
	return value, nil
}
