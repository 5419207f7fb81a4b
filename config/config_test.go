package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassbeaver/gdispatch/config"
	"github.com/bassbeaver/gdispatch/route"
)

func TestRouteConfig_Definition(t *testing.T) {
	t.Parallel()

	configObj := viper.New()
	configObj.Set("routes.users_show", map[string]interface{}{
		"path":       "/users/{user}",
		"methods":    []string{"GET"},
		"controller": "users:Show",
		"parameters": []map[string]interface{}{
			{"name": "user", "cast": map[string]interface{}{"type": "entity", "entity": "users", "column": "email"}},
		},
		"dependencies": []map[string]interface{}{{"name": "log", "service": "logger"}},
		"middleware":   map[string][]string{"route_matched": {"auth:Check"}},
	})

	routeConfig := config.RouteConfig{}
	require.NoError(t, configObj.UnmarshalKey("routes.users_show", &routeConfig))

	assert.Equal(t, "users", routeConfig.ControllerAlias())
	assert.Equal(t, "Show", routeConfig.ControllerMethod())

	definition := routeConfig.Definition("users_show")
	assert.Equal(t, "users_show", definition.Name)
	assert.Equal(t, "/users/{user}", definition.Path)
	assert.Equal(t, []string{"GET"}, definition.Methods)
	assert.Equal(t, route.Cast{Type: route.CastEntity, Entity: "users", Column: "email"}, definition.Parameters[0].Cast)
	assert.Equal(t, []route.Dependency{{Name: "log", Service: "logger"}}, definition.Dispatch.Dependencies)
	assert.Equal(t, []string{"auth:Check"}, definition.Middleware["route_matched"])
}

func TestEventListenerConfig(t *testing.T) {
	t.Parallel()

	c := config.EventListenerConfig{EventName: "kernelEvent.Booted", Listener: "audit:OnBoot"}
	assert.Equal(t, "audit", c.ListenerAlias())
	assert.Equal(t, "OnBoot", c.ListenerMethod())
}

func TestEnabledFlags(t *testing.T) {
	t.Parallel()

	assert.False(t, (&config.CacheConfig{}).Enabled())
	assert.True(t, (&config.CacheConfig{Driver: "file"}).Enabled())
	assert.False(t, (&config.EntityConfig{Driver: "sqlite3"}).Enabled())
	assert.True(t, (&config.EntityConfig{Driver: "sqlite3", DSN: ":memory:"}).Enabled())
}
