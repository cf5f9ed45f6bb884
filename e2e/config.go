package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SERVER_ADDR points at a running server, e.g. http://localhost:5000. Scenarios skip when unset.
	ServerAddr string `envconfig:"SERVER_ADDR"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// STALENESS_TIMEOUT and SWEEP_INTERVAL must match the server under test
	StalenessTimeout time.Duration `envconfig:"STALENESS_TIMEOUT" default:"10s"`
	SweepInterval    time.Duration `envconfig:"SWEEP_INTERVAL" default:"15s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
