package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with pointer fields so that unset environment
// variables leave the current value untouched.
type envConfig struct {
	EndpointAddrHTTP            *string        `env:"ADDRESS"`
	DatabaseDSN                 *string        `env:"DATABASE_DSN"`
	SecretKey                   *string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration *time.Duration `env:"ACCESS_TOKEN_TTL"`
}

// parseEnv overlays configuration values from environment variables.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *c.AccessTokenValidityDuration
	}
}
