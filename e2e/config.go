package e2e

import (
	"time"

	env "github.com/netflix/go-env"
)

// Config holds the configuration for E2E tests
type Config struct {
	Days    int           `env:"TEAMS_RECORDINGS_E2E_DAYS,default=7"`
	Timeout time.Duration `env:"TEAMS_RECORDINGS_E2E_TIMEOUT,default=5m"`
	Workers int           `env:"TEAMS_RECORDINGS_E2E_WORKERS,default=4"`
}

// LoadConfig loads E2E test configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
