package cli

import (
	"github.com/bassbeaver/gdispatch/cli/console"
	"github.com/bassbeaver/gdispatch/route"
)

// Controller is the dispatch target of a command.
type Controller func(*console.Input, *route.Arguments) *console.Output

// Command is a command registered from code. Path is the command DSL matched against
// the command name, e.g. "make:{what:alpha}".
type Command struct {
	Name         string
	Path         string
	Controller   Controller
	Help         string
	Parameters   []route.Parameter
	Dependencies []route.Dependency
	Middleware   map[string][]string
}

func (c *Command) definition() route.Definition {
	name := c.Name
	if "" == name {
		name = c.Path
	}

	return route.Definition{
		Name:       name,
		Path:       c.Path,
		Parameters: c.Parameters,
		Dispatch: route.Dispatch{
			Controller:   name,
			Dependencies: c.Dependencies,
		},
		Middleware: c.Middleware,
	}
}

//--------------------

func NewCommand(path string, controller Controller, help string) *Command {
	return &Command{
		Name:       path,
		Path:       path,
		Controller: controller,
		Help:       help,
	}
}
