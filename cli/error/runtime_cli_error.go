package error

type RuntimeError struct {
	basicCliError
}

//--------------------

func NewRuntimeError(message string, cause error) *RuntimeError {
	return &RuntimeError{
		basicCliError{
			status:  3,
			message: message,
			cause:   cause,
		},
	}
}
