package error

import "fmt"

// CommandNotFoundError is the default of the not matched phase. An empty Name means
// no command was given at all.
type CommandNotFoundError struct {
	basicCliError
	Name string
}

//--------------------

func NewCommandNotFoundError(name string) *CommandNotFoundError {
	if "" == name {
		return &CommandNotFoundError{
			basicCliError: basicCliError{
				status:  64,
				message: "command not specified",
			},
		}
	}

	return &CommandNotFoundError{
		basicCliError: basicCliError{
			status:  2,
			message: fmt.Sprintf("command %q not found", name),
		},
		Name: name,
	}
}
