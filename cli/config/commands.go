package config

import (
	commonConfig "github.com/bassbeaver/gdispatch/config"
)

// CommandConfig is read from "cli.commands.<name>". Path defaults to the name.
type CommandConfig struct {
	commonConfig.RouteConfig `mapstructure:",squash"`
	Help                     string
}

// CliConfig is read from "cli".
type CliConfig struct {
	// Middleware lists global middleware per phase, as registered aliases or "alias:Method".
	Middleware map[string][]string
	Patterns   map[string]string
	Cache      commonConfig.CacheConfig
}
