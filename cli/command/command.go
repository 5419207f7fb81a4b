// Package command holds the commands every application gets: route and command
// introspection, shell completion and route cache management.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bassbeaver/gdispatch/cli"
	"github.com/bassbeaver/gdispatch/cli/console"
	cliKernelError "github.com/bassbeaver/gdispatch/cli/error"
	"github.com/bassbeaver/gdispatch/collection"
	"github.com/bassbeaver/gdispatch/route"
	"github.com/bassbeaver/gdispatch/routecache"
)

const (
	RoutesListName     = "routes:list"
	RoutesCacheName    = "routes:cache"
	CommandsListName   = "commands:list"
	CommandsCacheName  = "commands:cache"
	CompletionListName = "completion:list"

	noColorOption = "no-color"
)

// RoutesSource is a kernel whose routes can be listed and cached.
type RoutesSource interface {
	Boot() error
	Routes() *collection.Collection
	CompileRoutes() (*collection.Collection, error)
}

// Register adds the built-in commands to kernel. commands:cache is added when kernel
// has a route cache. The routes:* commands are added only when routes is given,
// routes:cache only when cache is given too.
func Register(kernel *cli.Kernel, routes RoutesSource, cache routecache.Cache, cacheKernelName string) {
	kernel.
		RegisterCommand(cli.NewCommand(CommandsListName, CommandsList(kernel), "Lists the available commands")).
		RegisterCommand(cli.NewCommand(CompletionListName, CompletionList(kernel), "Prints command names for shell completion, filtered by an optional prefix"))

	if commandCache := kernel.GetRouteCache(); nil != commandCache {
		kernel.RegisterCommand(cli.NewCommand(CommandsCacheName, CommandsCache(kernel, commandCache), "Compiles commands into the command cache, --clear removes it"))
	}

	if nil == routes {
		return
	}
	kernel.RegisterCommand(cli.NewCommand(RoutesListName, RoutesList(routes), "Lists HTTP routes, --method=GET filters by method"))

	if nil == cache {
		return
	}
	kernel.RegisterCommand(cli.NewCommand(RoutesCacheName, RoutesCache(routes, cache, cacheKernelName), "Compiles HTTP routes into the route cache, --clear removes it"))
}

// RoutesList renders the routes of source as a table.
func RoutesList(source RoutesSource) cli.Controller {
	return func(input *console.Input, _ *route.Arguments) *console.Output {
		if bootError := source.Boot(); nil != bootError {
			panic(cliKernelError.NewRuntimeError("failed to load routes", bootError))
		}

		method, filtered := input.Option("method")
		method = strings.ToUpper(method)

		rows := make([][]string, 0)
		for _, r := range source.Routes().AllFlattened() {
			if filtered && !r.HasMethod(method) {
				continue
			}

			methods := strings.Join(r.Methods(), "|")
			if "" == methods {
				methods = "ANY"
			}
			rows = append(rows, []string{methods, r.Path(), r.Name(), r.Dispatch().Controller})
		}

		if 0 == len(rows) {
			return console.NewOutput("No routes registered")
		}

		return console.NewOutput(render(input, []string{"Method", "Path", "Name", "Controller"}, rows))
	}
}

// CommandsList renders the commands of kernel with their help.
func CommandsList(kernel *cli.Kernel) cli.Controller {
	return func(input *console.Input, _ *route.Arguments) *console.Output {
		rows := make([][]string, 0)
		for _, name := range commandNames(kernel) {
			rows = append(rows, []string{name, kernel.Help(name)})
		}

		return console.NewOutput(render(input, []string{"Command", "Description"}, rows))
	}
}

// CompletionList prints one command name per line, for shell completion scripts.
func CompletionList(kernel *cli.Kernel) cli.Controller {
	return func(input *console.Input, _ *route.Arguments) *console.Output {
		prefix := input.Argument(0)

		output := console.NewOutput()
		for _, name := range commandNames(kernel) {
			if strings.HasPrefix(name, prefix) {
				output = output.Write(name)
			}
		}

		return output
	}
}

// RoutesCache stores freshly compiled routes of source in cache.
func RoutesCache(source RoutesSource, cache routecache.Cache, kernelName string) cli.Controller {
	return compileIntoCache(source, cache, kernelName, "routes", "Route cache")
}

// CommandsCache stores freshly compiled commands of kernel in cache.
func CommandsCache(kernel *cli.Kernel, cache routecache.Cache) cli.Controller {
	return compileIntoCache(kernel, cache, cli.KernelName, "commands", "Command cache")
}

func compileIntoCache(source RoutesSource, cache routecache.Cache, kernelName, noun, title string) cli.Controller {
	return func(input *console.Input, _ *route.Arguments) *console.Output {
		if input.HasOption("clear") {
			if clearError := cache.Clear(input.Context()); nil != clearError {
				panic(cliKernelError.NewRuntimeError("failed to clear "+strings.ToLower(title), clearError))
			}

			return console.NewOutput(title + " cleared")
		}

		if bootError := source.Boot(); nil != bootError {
			panic(cliKernelError.NewRuntimeError("failed to load "+noun, bootError))
		}
		routes, compileError := source.CompileRoutes()
		if nil != compileError {
			panic(cliKernelError.NewRuntimeError("failed to compile "+noun, compileError))
		}

		if storeError := cache.Store(input.Context(), routecache.NewSnapshot(kernelName, routes)); nil != storeError {
			panic(cliKernelError.NewRuntimeError("failed to store "+strings.ToLower(title), storeError))
		}

		return console.NewOutput(fmt.Sprintf("Cached %d %s", routes.Len(), noun))
	}
}

func commandNames(kernel *cli.Kernel) []string {
	names := make([]string, 0)
	if nil == kernel.Routes() {
		return names
	}

	for _, command := range kernel.Routes().AllFlattened() {
		names = append(names, command.Name())
	}
	sort.Strings(names)

	return names
}

func render(input *console.Input, headers []string, rows [][]string) string {
	useColors := !input.HasOption(noColorOption)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(func() lipgloss.Style {
			if useColors {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
			}

			return lipgloss.NewStyle()
		}()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1)
			if table.HeaderRow == row && useColors {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}

			return style
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}
