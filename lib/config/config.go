// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the server binary.
//
// Configuration is loaded from a single YAML file specified by the
// --config flag. There are no fallbacks or automatic discovery; flags
// parsed by the process entry override file values. This keeps the
// effective configuration deterministic and auditable.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ads-mirrors/react-reactotron-infinitered/lib/tlsconfig"
)

// DefaultPort is the port clients connect to when none is configured.
const DefaultPort = 9090

// Config is the server configuration.
type Config struct {
	// Host is the interface to bind. Empty means all interfaces.
	Host string `yaml:"host"`

	// Port is the TCP port the server listens on.
	Port int `yaml:"port"`

	// TLS names certificate material for a TLS-wrapped listener.
	// Zero value means plaintext.
	TLS tlsconfig.Settings `yaml:"tls"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{Port: DefaultPort}
}

// Load reads and validates a configuration file. Values absent from
// the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	configuration := Default()
	if err := yaml.Unmarshal(data, &configuration); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := configuration.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return configuration, nil
}

// Validate checks the configuration for shape errors.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return c.TLS.Validate()
}
