// Package config loads, resolves and serializes the pc configuration file.
package config

import (
	_ "embed"
	"fmt"
)

// DefaultLogLevel keeps stderr quiet unless asked otherwise.
const DefaultLogLevel = "warn"

//go:embed default_config.toml
var defaultConfigTOML []byte

// Default returns the compiled-in configuration, used when no config file is
// selected or found.
func Default() Config {
	cfg, err := NewLoader().Parse(defaultConfigTOML)
	if err != nil {
		panic(fmt.Sprintf("config: compiled-in defaults are invalid: %v", err))
	}
	return cfg
}
