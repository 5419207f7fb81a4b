package console

import "strconv"

// ExitCode is the status a command ends the process with.
type ExitCode int

const (
	ExitSuccess         ExitCode = 0
	ExitFailure         ExitCode = 1
	ExitCommandNotFound ExitCode = 2
	ExitRuntime         ExitCode = 3
	ExitUsage           ExitCode = 64
)

func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "success"
	case ExitFailure:
		return "failure"
	case ExitCommandNotFound:
		return "command not found"
	case ExitRuntime:
		return "runtime error"
	case ExitUsage:
		return "usage error"
	}

	return "exit " + strconv.Itoa(int(c))
}

func (c ExitCode) IsSuccess() bool {
	return ExitSuccess == c
}
