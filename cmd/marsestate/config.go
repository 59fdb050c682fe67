package main

import (
	"time"

	"github.com/tinytelemetry/marsestate/internal/model"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 8080
	defaultQueryTimeout = model.DefaultQueryTimeout
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	APIEnabled   bool          `mapstructure:"api-enabled"`
	APIPort      int           `mapstructure:"api-port"`
	APIAddr      string        `mapstructure:"api-addr"`
	SocketPath   string        `mapstructure:"socket-path"`
	DBPath       string        `mapstructure:"db-path"`
	CatalogPath  string        `mapstructure:"catalog-path"` // empty = embedded default catalog
	QueryTimeout time.Duration `mapstructure:"query-timeout"`
	ConfigPath   string        `mapstructure:"-"` // not from config file
}
