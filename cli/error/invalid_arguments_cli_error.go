package error

// InvalidArgumentsError is raised when the parameters of a command can not be bound.
type InvalidArgumentsError struct {
	basicCliError
}

//--------------------

func NewInvalidArgumentsError(cause error) *InvalidArgumentsError {
	return &InvalidArgumentsError{
		basicCliError{
			status:  64,
			message: "invalid arguments",
			cause:   cause,
		},
	}
}
