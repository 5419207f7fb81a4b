// Package console holds what a command reads and what it writes.
package console

import (
	"context"
	"strings"
)

// Input is a parsed command line: the command name, positional arguments and options.
type Input struct {
	Name      string
	Arguments []string
	Options   map[string][]string

	ctx context.Context
}

// Context returns the values attached to the input, background when there are none.
func (i *Input) Context() context.Context {
	if nil == i.ctx {
		return context.Background()
	}

	return i.ctx
}

// ContextAppend attaches one more value to the input context.
func (i *Input) ContextAppend(key, val interface{}) {
	i.ctx = context.WithValue(i.Context(), key, val)
}

// Argument returns a positional argument, empty when there is none at index.
func (i *Input) Argument(index int) string {
	if 0 > index || index >= len(i.Arguments) {
		return ""
	}

	return i.Arguments[index]
}

// Option returns the last value given for an option.
func (i *Input) Option(name string) (string, bool) {
	values, exists := i.Options[name]
	if !exists || 0 == len(values) {
		return "", false
	}

	return values[len(values)-1], true
}

func (i *Input) HasOption(name string) bool {
	_, exists := i.Options[name]

	return exists
}

func (i *Input) WithName(name string) *Input {
	result := i.copy()
	result.Name = name

	return result
}

func (i *Input) WithArguments(arguments ...string) *Input {
	result := i.copy()
	result.Arguments = append([]string(nil), arguments...)

	return result
}

// copy leaves the context behind, a copy is a new invocation.
func (i *Input) copy() *Input {
	result := &Input{
		Name:      i.Name,
		Arguments: append([]string(nil), i.Arguments...),
		Options:   make(map[string][]string, len(i.Options)),
	}
	for name, values := range i.Options {
		result.Options[name] = append([]string(nil), values...)
	}

	return result
}

//--------------------

// ParseInput reads os.Args without the program name. The first positional argument
// is the command name. "--name=value" and "--flag" are long options, "-abc" sets
// three short flags, everything after "--" is positional.
func ParseInput(args []string) *Input {
	input := &Input{
		Arguments: make([]string, 0),
		Options:   make(map[string][]string),
	}

	positional := make([]string, 0, len(args))
	for position := 0; position < len(args); position++ {
		arg := args[position]
		switch {
		case "--" == arg:
			positional = append(positional, args[position+1:]...)
			position = len(args)
		case strings.HasPrefix(arg, "--"):
			name, value, _ := strings.Cut(arg[2:], "=")
			input.Options[name] = append(input.Options[name], value)
		case strings.HasPrefix(arg, "-") && 1 < len(arg):
			for _, flag := range arg[1:] {
				input.Options[string(flag)] = append(input.Options[string(flag)], "")
			}
		default:
			positional = append(positional, arg)
		}
	}

	if 0 < len(positional) {
		input.Name = positional[0]
		input.Arguments = positional[1:]
	}

	return input
}
