package command_test

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassbeaver/gdispatch/cli"
	"github.com/bassbeaver/gdispatch/cli/command"
	"github.com/bassbeaver/gdispatch/cli/console"
	"github.com/bassbeaver/gdispatch/route"
	"github.com/bassbeaver/gdispatch/routecache"
	"github.com/bassbeaver/gdispatch/web"
	"github.com/bassbeaver/gdispatch/web/response"
)

func newWebKernel(t *testing.T) *web.Kernel {
	t.Helper()

	kernel, err := web.NewKernelWithConfig(nil, nil, nil)
	require.NoError(t, err)

	controller := func(*http.Request, *route.Arguments) response.Response {
		return response.NewTextResponse(http.StatusOK, "ok")
	}
	kernel.
		RegisterRoute(route.Definition{Name: "home", Path: "/", Methods: []string{"GET"}, Dispatch: route.Dispatch{Controller: "home"}}).
		RegisterRoute(route.Definition{Name: "user.update", Path: "/users/{id:num}", Methods: []string{"PUT"}, Dispatch: route.Dispatch{Controller: "home"}}).
		RegisterController("home", controller)

	return kernel
}

func run(t *testing.T, kernel *cli.Kernel, args ...string) (console.ExitCode, string, string) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	kernel.SetOutput(stdout, stderr)

	input := console.ParseInput(args)
	output := kernel.Handle(input)
	kernel.Send(output)
	kernel.Terminate(input, output)

	return output.ExitCode(), stdout.String(), stderr.String()
}

func newCliKernel(t *testing.T, routes command.RoutesSource, cache routecache.Cache) *cli.Kernel {
	t.Helper()

	kernel, err := cli.NewKernelWithConfig(nil, nil, nil)
	require.NoError(t, err)

	command.Register(kernel, routes, cache, web.KernelName)
	kernel.RegisterCommand(cli.NewCommand("cache:clear", func(*console.Input, *route.Arguments) *console.Output {
		return console.NewOutput()
	}, "Clears the application cache"))
	require.NoError(t, kernel.Boot())

	return kernel
}

func TestRoutesList(t *testing.T) {
	kernel := newCliKernel(t, newWebKernel(t), nil)

	code, stdout, _ := run(t, kernel, command.RoutesListName, "--no-color")
	assert.Equal(t, console.ExitSuccess, code)
	assert.Contains(t, stdout, "home")
	assert.Contains(t, stdout, "/users/{id:num}")
	assert.Contains(t, stdout, "PUT")

	code, stdout, _ = run(t, kernel, command.RoutesListName, "--method=get")
	assert.Equal(t, console.ExitSuccess, code)
	assert.Contains(t, stdout, "home")
	assert.NotContains(t, stdout, "user.update")

	_, stdout, _ = run(t, kernel, command.RoutesListName, "--method=DELETE")
	assert.Equal(t, "No routes registered\n", stdout)
}

func TestCommandsList(t *testing.T) {
	kernel := newCliKernel(t, nil, nil)

	code, stdout, _ := run(t, kernel, command.CommandsListName)
	assert.Equal(t, console.ExitSuccess, code)
	assert.Contains(t, stdout, "cache:clear")
	assert.Contains(t, stdout, "Clears the application cache")
	assert.Contains(t, stdout, command.CompletionListName)
	assert.NotContains(t, stdout, command.RoutesListName)
}

func TestCompletionList(t *testing.T) {
	kernel := newCliKernel(t, newWebKernel(t), nil)

	_, stdout, _ := run(t, kernel, command.CompletionListName)
	assert.Equal(t, "cache:clear\ncommands:list\ncompletion:list\nroutes:list\n", stdout)

	_, stdout, _ = run(t, kernel, command.CompletionListName, "c")
	assert.Equal(t, "cache:clear\ncommands:list\ncompletion:list\n", stdout)
}

func TestRoutesCache(t *testing.T) {
	cache := routecache.NewFile(filepath.Join(t.TempDir(), "routes.yaml"))
	kernel := newCliKernel(t, newWebKernel(t), cache)

	code, stdout, _ := run(t, kernel, command.RoutesCacheName)
	assert.Equal(t, console.ExitSuccess, code)
	assert.Equal(t, "Cached 2 routes\n", stdout)

	snapshot, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, web.KernelName, snapshot.Kernel)
	assert.Len(t, snapshot.Routes, 2)

	cached, err := web.NewKernelWithConfig(nil, nil, nil)
	require.NoError(t, err)
	cached.SetRouteCache(cache).RegisterController("home", func(*http.Request, *route.Arguments) response.Response {
		return response.NewTextResponse(http.StatusTeapot, "from cache")
	})
	require.NoError(t, cached.Boot())
	assert.Equal(t, 2, cached.Routes().Len())

	code, stdout, _ = run(t, kernel, command.RoutesCacheName, "--clear")
	assert.Equal(t, console.ExitSuccess, code)
	assert.Equal(t, "Route cache cleared\n", stdout)

	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, routecache.ErrCacheMiss)
}

func TestCommandsCache(t *testing.T) {
	cache := routecache.NewFile(filepath.Join(t.TempDir(), "commands.yaml"))

	kernel, err := cli.NewKernelWithConfig(nil, nil, nil)
	require.NoError(t, err)
	kernel.SetRouteCache(cache)
	command.Register(kernel, nil, nil, web.KernelName)
	require.NoError(t, kernel.Boot())

	code, stdout, _ := run(t, kernel, command.CommandsCacheName)
	assert.Equal(t, console.ExitSuccess, code)
	assert.Equal(t, "Cached 3 commands\n", stdout)

	snapshot, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cli.KernelName, snapshot.Kernel)

	cached, err := cli.NewKernelWithConfig(nil, nil, nil)
	require.NoError(t, err)
	cached.SetRouteCache(cache)
	command.Register(cached, nil, nil, web.KernelName)
	require.NoError(t, cached.Boot())
	assert.Equal(t, 3, cached.Routes().Len())

	// a web kernel pointed at the same cache compiles its own routes
	webKernel := newWebKernel(t)
	webKernel.SetRouteCache(cache)
	require.NoError(t, webKernel.Boot())
	assert.Equal(t, 2, webKernel.Routes().Len())
	assert.True(t, webKernel.Routes().Has("home"))

	code, stdout, _ = run(t, kernel, command.CommandsCacheName, "--clear")
	assert.Equal(t, console.ExitSuccess, code)
	assert.Equal(t, "Command cache cleared\n", stdout)
}

func TestRegister_WithoutCommandCache(t *testing.T) {
	kernel := newCliKernel(t, nil, nil)

	_, stdout, _ := run(t, kernel, command.CompletionListName, "commands:")
	assert.Equal(t, "commands:list\n", stdout)
}
