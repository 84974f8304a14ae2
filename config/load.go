package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load builds the runtime configuration: defaults, overlaid with the TOML
// file at path (if present), overlaid with environment secrets. A missing
// file is not an error so a fresh checkout runs with defaults alone.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to unmarshal %s: %w", path, err)
		}
		logger.Info("loaded configuration", "path", path)
	}

	fillEnvVars(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// fillEnvVars lets secrets come from the environment instead of the file.
// Environment values win over file values.
func fillEnvVars(cfg *Config) {
	if v := os.Getenv(EnvJwtAuthSecret); v != "" {
		cfg.Jwt.AuthSecret = v
	}
	if v := os.Getenv(EnvSmtpUsername); v != "" {
		cfg.Smtp.Username = v
	}
	if v := os.Getenv(EnvSmtpPassword); v != "" {
		cfg.Smtp.Password = v
	}

	gh, ok := cfg.OAuth2Providers[OAuth2ProviderGitHub]
	if !ok {
		return
	}
	if v := os.Getenv(EnvGithubClientID); v != "" {
		gh.ClientID = v
	}
	if v := os.Getenv(EnvGithubClientSecret); v != "" {
		gh.ClientSecret = v
	}
	cfg.OAuth2Providers[OAuth2ProviderGitHub] = gh
}
