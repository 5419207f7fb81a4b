package config

import (
	commonConfig "github.com/bassbeaver/gdispatch/config"
)

// RoutingConfig is read from "web.routing", routes themselves are read one by one
// from "web.routing.routes.<name>".
type RoutingConfig struct {
	// Middleware lists global middleware per phase, as registered aliases or "alias:Method".
	Middleware map[string][]string
	// Patterns extends the named parameter patterns.
	Patterns map[string]string
	Cache    commonConfig.CacheConfig
}
