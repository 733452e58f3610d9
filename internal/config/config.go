// Package config reads the server configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the prefix of every configuration variable.
const Prefix = "IZPOSOJA"

// Config is the server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string `envconfig:"ADDR" default:":8080"`
	// LogPath is an optional log file written in addition to stdout/stderr.
	LogPath string `envconfig:"LOG"`
	// SeedPath is a JSON data set loaded instead of the built-in samples.
	SeedPath string `envconfig:"SEED"`
	// ImagesDir holds item photos named after item IDs.
	ImagesDir string `envconfig:"IMAGES"`

	// NotifyURL is the RabbitMQ URL notifications are published to. When
	// empty, notifications are only logged.
	NotifyURL      string `envconfig:"NOTIFY_URL"`
	NotifyExchange string `envconfig:"NOTIFY_EXCHANGE" default:"izposoja"`
}

// Load reads IZPOSOJA_* variables into a Config, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
