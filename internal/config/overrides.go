package config

import "github.com/sharkusmanch/pc/internal/domain"

// ApplyServerOverride returns cfg with main.server resolved against the
// command-line selection. cfg is not modified.
func ApplyServerOverride(cfg Config, override domain.Override[string]) Config {
	cfg.Main.Server = override.Apply(cfg.Main.Server)
	return cfg
}

// ApplyHistfileOverride returns cfg with main.histfile resolved against the
// command-line value. Clearing it disables the history file.
func ApplyHistfileOverride(cfg Config, override domain.Override[string]) Config {
	cfg.Main.Histfile = override.Apply(cfg.Main.Histfile)
	return cfg
}
