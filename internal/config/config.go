package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Penny"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		Path string `envconfig:"LEDGER_PATH" default:"budget.json"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Plaid struct {
		ClientID         string `envconfig:"PLAID_CLIENT_ID"`
		SandboxSecret    string `envconfig:"PLAID_SANDBOX_SECRET"`
		ProductionSecret string `envconfig:"PLAID_PRODUCTION_SECRET"`
		Environment      string `envconfig:"PLAID_ENV" default:"sandbox"`
	}
}

// PlaidSecret returns the secret matching the configured environment.
func (c *Config) PlaidSecret() string {
	if c.Plaid.Environment == "production" {
		return c.Plaid.ProductionSecret
	}

	return c.Plaid.SandboxSecret
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
