package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// Upstream REST API, e.g. http://localhost:8000/api
	APIURL     string        `env:"API_URL,required,notEmpty"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	// Hex encoded AES key (16, 24 or 32 bytes) for the session cookie
	SecretKey    string `env:"SECRET_KEY,required,notEmpty"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// Origins allowed to call the server cross-site. Empty disables CORS.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Submit guard. Empty RedisAddr keeps form tokens in memory.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	SubmitWindow  time.Duration `env:"SUBMIT_WINDOW" envDefault:"30s"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}

// ClaimWindow is how long a form token stays claimed. It never ends before the API
// call it guards can time out.
func (c *Config) ClaimWindow() time.Duration {
	if c.SubmitWindow < c.APITimeout {
		return c.APITimeout
	}
	return c.SubmitWindow
}
