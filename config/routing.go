package config

import (
	"github.com/bassbeaver/gdispatch/helper"
	"github.com/bassbeaver/gdispatch/route"
)

// RouteConfig is a route or a command as written in configuration files. The map key
// under which it is configured becomes the route name.
type RouteConfig struct {
	Path         string
	Methods      []string
	Regex        string
	Controller   string
	Parameters   []route.Parameter
	Dependencies []route.Dependency
	Middleware   map[string][]string
}

func (c *RouteConfig) ControllerAlias() string {
	return helper.GetStringPart(c.Controller, ":", 0)
}

func (c *RouteConfig) ControllerMethod() string {
	return helper.GetStringPart(c.Controller, ":", 1)
}

func (c *RouteConfig) Definition(name string) route.Definition {
	return route.Definition{
		Name:       name,
		Path:       c.Path,
		Methods:    c.Methods,
		Regex:      c.Regex,
		Parameters: c.Parameters,
		Dispatch: route.Dispatch{
			Controller:   c.Controller,
			Dependencies: c.Dependencies,
		},
		Middleware: c.Middleware,
	}
}

//--------------------

// CacheConfig points to a precompiled route cache. Driver is "file" or "redis".
type CacheConfig struct {
	Driver   string
	Path     string
	Addr     string
	Password string
	DB       int
	Key      string
}

func (c *CacheConfig) Enabled() bool {
	return "" != c.Driver
}
