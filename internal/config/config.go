package config

import (
	"errors"
	"fmt"
)

// Config is the application configuration
type Config struct {
	Management ManagementConfig `mapstructure:"management"`
	Auth       AuthConfig       `mapstructure:"auth"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ManagementConfig holds the M2M application used to call the management API
type ManagementConfig struct {
	// Domain is the only host the client credentials are sent to
	Domain          string `mapstructure:"domain"`
	ClientID        string `mapstructure:"client_id"`
	ClientSecret    string `mapstructure:"client_secret"`
	ClientSecretARN string `mapstructure:"client_secret_arn"` // Secrets Manager ARN, wins over ClientSecret
	Audience        string `mapstructure:"audience"`
}

// AuthConfig describes the tokens webhook callers must present
type AuthConfig struct {
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the settings every entry point needs
func (c *Config) Validate() error {
	var errs []error
	if c.Management.Domain == "" {
		errs = append(errs, errors.New("management.domain is required"))
	}
	if c.Management.ClientID == "" {
		errs = append(errs, errors.New("management.client_id is required"))
	}
	if c.Management.ClientSecret == "" && c.Management.ClientSecretARN == "" {
		errs = append(errs, errors.New("management.client_secret or management.client_secret_arn is required"))
	}
	errs = append(errs, c.validateLogging())
	return errors.Join(errs...)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
}

// ValidateHTTP checks the settings the webhook surfaces need on top of Validate
func (c *Config) ValidateHTTP() error {
	if c.Auth.Issuer == "" {
		return errors.New("auth.issuer is required to verify webhook callers")
	}
	return nil
}
