package console_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	cliKernelError "github.com/bassbeaver/gdispatch/cli/error"
	"github.com/bassbeaver/gdispatch/cli/console"
)

func TestParseInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		command   string
		arguments []string
		options   map[string][]string
	}{
		{"empty", nil, "", []string{}, map[string][]string{}},
		{"name only", []string{"routes:list"}, "routes:list", []string{}, map[string][]string{}},
		{
			"arguments and options",
			[]string{"--verbose", "make:model", "user", "--table=users", "-fq", "--table=people"},
			"make:model",
			[]string{"user"},
			map[string][]string{"verbose": {""}, "table": {"users", "people"}, "f": {""}, "q": {""}},
		},
		{
			"everything after double dash is positional",
			[]string{"run", "--", "--not-an-option", "-x"},
			"run",
			[]string{"--not-an-option", "-x"},
			map[string][]string{},
		},
		{"single dash is positional", []string{"cat", "-"}, "cat", []string{"-"}, map[string][]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := console.ParseInput(tt.args)
			assert.Equal(t, tt.command, input.Name)
			assert.Equal(t, tt.arguments, input.Arguments)
			assert.Equal(t, tt.options, input.Options)
		})
	}
}

func TestInput_Accessors(t *testing.T) {
	t.Parallel()

	input := console.ParseInput([]string{"greet", "world", "--greeting=hi", "--greeting=hello", "-v"})

	assert.Equal(t, "world", input.Argument(0))
	assert.Equal(t, "", input.Argument(1))
	assert.Equal(t, "", input.Argument(-1))

	greeting, given := input.Option("greeting")
	assert.True(t, given)
	assert.Equal(t, "hello", greeting)
	assert.True(t, input.HasOption("v"))
	assert.False(t, input.HasOption("x"))

	renamed := input.WithName("other").WithArguments("a", "b")
	assert.Equal(t, "greet", input.Name)
	assert.Equal(t, []string{"world"}, input.Arguments)
	assert.Equal(t, "other", renamed.Name)
	assert.Equal(t, []string{"a", "b"}, renamed.Arguments)
}

type inputKey struct{}

func TestInput_Context(t *testing.T) {
	t.Parallel()

	input := console.ParseInput([]string{"greet"})
	assert.Nil(t, input.Context().Value(inputKey{}))

	input.ContextAppend(inputKey{}, "value")
	assert.Equal(t, "value", input.Context().Value(inputKey{}))
	assert.Nil(t, input.WithName("other").Context().Value(inputKey{}))
}

func TestOutput_IsCopyOnWrite(t *testing.T) {
	t.Parallel()

	base := console.NewOutput("one")
	extended := base.Write("two").WriteError("three").WithExitCode(console.ExitFailure)

	assert.Len(t, base.Messages(), 1)
	assert.Equal(t, console.ExitSuccess, base.ExitCode())

	assert.Equal(t, []console.Message{
		{Text: "one", Stream: console.StreamOut},
		{Text: "two", Stream: console.StreamOut},
		{Text: "three", Stream: console.StreamErr},
	}, extended.Messages())
	assert.Equal(t, console.ExitFailure, extended.ExitCode())
}

func TestNewErrorOutput(t *testing.T) {
	t.Parallel()

	notFound := console.NewErrorOutput(cliKernelError.NewCommandNotFoundError("nope"))
	assert.Equal(t, console.ExitCommandNotFound, notFound.ExitCode())
	assert.Equal(t, console.StreamErr, notFound.Messages()[0].Stream)

	notSpecified := console.NewErrorOutput(cliKernelError.NewCommandNotFoundError(""))
	assert.Equal(t, console.ExitUsage, notSpecified.ExitCode())

	invalid := console.NewErrorOutput(cliKernelError.NewInvalidArgumentsError(errors.New("bad id")))
	assert.Equal(t, console.ExitUsage, invalid.ExitCode())
	assert.Equal(t, "invalid arguments: bad id", invalid.Messages()[0].Text)

	other := console.NewErrorOutput(errors.New("disk full"))
	assert.Equal(t, console.ExitRuntime, other.ExitCode())
	assert.Equal(t, "disk full", other.Messages()[0].Text)
}

func TestExitCode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", console.ExitSuccess.String())
	assert.Equal(t, "usage error", console.ExitUsage.String())
	assert.Equal(t, "exit 42", console.ExitCode(42).String())
	assert.True(t, console.ExitSuccess.IsSuccess())
	assert.False(t, console.ExitRuntime.IsSuccess())
}
