package console

import (
	"errors"

	cliKernelError "github.com/bassbeaver/gdispatch/cli/error"
)

type Stream int

const (
	StreamOut Stream = iota
	StreamErr
)

type Message struct {
	Text   string
	Stream Stream
}

// Output is what a command produced. It never changes, every With* and Write*
// method returns a modified copy.
type Output struct {
	messages []Message
	exitCode ExitCode
}

func (o *Output) Write(text string) *Output {
	return o.withMessage(Message{Text: text, Stream: StreamOut})
}

func (o *Output) WriteError(text string) *Output {
	return o.withMessage(Message{Text: text, Stream: StreamErr})
}

func (o *Output) WithExitCode(code ExitCode) *Output {
	result := o.copy()
	result.exitCode = code

	return result
}

func (o *Output) Messages() []Message {
	return append([]Message(nil), o.messages...)
}

func (o *Output) ExitCode() ExitCode {
	return o.exitCode
}

func (o *Output) withMessage(message Message) *Output {
	result := o.copy()
	result.messages = append(result.messages, message)

	return result
}

func (o *Output) copy() *Output {
	return &Output{
		messages: append(make([]Message, 0, len(o.messages)+1), o.messages...),
		exitCode: o.exitCode,
	}
}

//--------------------

func NewOutput(lines ...string) *Output {
	output := &Output{messages: make([]Message, 0, len(lines))}
	for _, line := range lines {
		output.messages = append(output.messages, Message{Text: line, Stream: StreamOut})
	}

	return output
}

// NewErrorOutput renders a failure on stderr. CliError statuses become the exit
// code, any other error exits with ExitRuntime.
func NewErrorOutput(err error) *Output {
	var cliError cliKernelError.CliError
	if errors.As(err, &cliError) {
		return NewOutput().WriteError(cliError.Error()).WithExitCode(ExitCode(cliError.Status()))
	}

	return NewOutput().WriteError(err.Error()).WithExitCode(ExitRuntime)
}
