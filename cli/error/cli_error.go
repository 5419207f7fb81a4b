package error

// CliError is a failure with the exit status the process should end with.
type CliError interface {
	error
	Status() int
	Message() string
}

//--------------------

type basicCliError struct {
	status  int
	message string
	cause   error
}

func (e *basicCliError) Status() int {
	return e.status
}

func (e *basicCliError) Message() string {
	return e.message
}

func (e *basicCliError) Error() string {
	if nil == e.cause {
		return e.message
	}

	return e.message + ": " + e.cause.Error()
}

func (e *basicCliError) Unwrap() error {
	return e.cause
}
