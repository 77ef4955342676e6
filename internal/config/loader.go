package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"management.domain":            "",
	"management.client_id":         "",
	"management.client_secret":     "",
	"management.client_secret_arn": "",
	"management.audience":          "",
	"auth.issuer":                  "",
	"auth.audience":                "",
	"http.addr":                    ":8080",
	"logging.level":                "info",
	"logging.format":               "json",
}

// Environment variables that do not follow the SECTION_KEY naming
var envAliases = map[string]string{
	"logging.level":  "LOG_LEVEL",
	"logging.format": "LOG_FORMAT",
}

// Load reads configuration from ./ and ./configs
func Load() (*Config, error) {
	return LoadFrom(".", "./configs")
}

// LoadFrom reads an optional .env and config.yaml from the given directories,
// then lets environment variables override them.
func LoadFrom(dirs ...string) (*Config, error) {
	cfg, err := read(dirs)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadAuth reads configuration for processes that only verify webhook callers
func LoadAuth() (*Config, error) {
	return LoadAuthFrom(".", "./configs")
}

// LoadAuthFrom is LoadFrom without the management credential checks
func LoadAuthFrom(dirs ...string) (*Config, error) {
	cfg, err := read(dirs)
	if err != nil {
		return nil, err
	}
	if err := errors.Join(cfg.validateLogging(), cfg.ValidateHTTP()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func read(dirs []string) (*Config, error) {
	loadEnvFile(dirs)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envAliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.NewReplacer(".", "_").Replace(key)), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found. Variables already set win.
func loadEnvFile(dirs []string) {
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}
