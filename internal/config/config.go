package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int           `envconfig:"PORT" default:"3848"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	Version        string        `envconfig:"VERSION" default:"1.0.0"`
	StoreDriver    string        `envconfig:"STORE_DRIVER" default:"sqlite"`
	StoreDSN       string        `envconfig:"STORE_DSN" default:"../data/quotator.db"`
	CrawlerURL     string        `envconfig:"CRAWLER_URL" default:"http://localhost:3849"`
	CrawlerTimeout time.Duration `envconfig:"CRAWLER_TIMEOUT" default:"30s"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	switch cfg.StoreDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q: must be %q or %q", cfg.StoreDriver, DriverSQLite, DriverPostgres)
	}
	return &cfg, nil
}
