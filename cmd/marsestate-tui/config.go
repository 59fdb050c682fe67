package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/marsestate/internal/model"
	"github.com/tinytelemetry/marsestate/internal/socketrpc"
)

// Listing sources the TUI can fetch from.
const (
	sourceHTTP   = "http"
	sourceSocket = "socket"
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	Source             string        `mapstructure:"source"`
	APIURL             string        `mapstructure:"api-url"`
	SocketPath         string        `mapstructure:"socket-path"`
	DefaultFilter      string        `mapstructure:"default-filter"`
	HTTPTimeout        time.Duration `mapstructure:"http-timeout"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel"`
	EmptyResultDone    bool          `mapstructure:"empty-result-done"`
	DiscardStale       bool          `mapstructure:"discard-stale"`

	filter model.Filter
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MARSESTATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("source", sourceHTTP)
	v.SetDefault("api-url", model.DefaultAPIURL)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("default-filter", model.DefaultFilter.Value())
	v.SetDefault("http-timeout", model.DefaultHTTPTimeout)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("empty-result-done", false)
	v.SetDefault("discard-stale", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "marsestate", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.validate()
}

// validate normalizes the source and parses the default filter.
func (c *cliConfig) validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source != sourceHTTP && c.Source != sourceSocket {
		return fmt.Errorf("invalid source %q: want %s or %s", c.Source, sourceHTTP, sourceSocket)
	}
	f, err := model.ParseFilter(c.DefaultFilter)
	if err != nil {
		return fmt.Errorf("invalid default-filter: %w", err)
	}
	c.filter = f
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = model.DefaultHTTPTimeout
	}
	return nil
}
