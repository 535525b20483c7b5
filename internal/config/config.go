// Package config loads runtime settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds every runtime setting. All values come from the environment;
// the only thing ever generated locally is the JWT signing secret, and only
// when JWT_SECRET_KEY is unset (a dev convenience - every previously issued
// token is invalidated on restart, so production must set the variable).
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"eye_care"`
	Env     string `env:"ENV" envDefault:"DEV"`
	Port    string `env:"PORT" envDefault:"8000"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	JWTSecretKey    string        `env:"JWT_SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`

	FrontendHostURL string        `env:"FRONTEND_HOST_URL" envDefault:"http://localhost:8080"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"8s"`
}

// New parses the environment into a Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "[config.New] parse environment")
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

// SigningSecret returns the raw JWT signing key. When JWT_SECRET_KEY is set it
// is decoded from hex; otherwise a fresh 256-bit key is generated for this
// process and the second return value is true so the caller can log a warning.
func (c *Config) SigningSecret() ([]byte, bool, error) {
	if c.JWTSecretKey != "" {
		secret, err := hex.DecodeString(c.JWTSecretKey)
		if err != nil {
			return nil, false, errors.Wrap(err, "[Config.SigningSecret] JWT_SECRET_KEY is not valid hex")
		}
		return secret, false, nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, errors.Wrap(err, "[Config.SigningSecret] rand.Read")
	}
	return secret, true, nil
}
