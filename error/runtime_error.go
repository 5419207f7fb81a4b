package error

import (
	"errors"
	"fmt"
)

// RuntimeError wraps a value recovered at the kernel boundary together with the stack trace.
type RuntimeError struct {
	Err   error
	Trace []byte
}

func (e *RuntimeError) Error() string {
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

//--------------------

// NewRuntimeError accepts anything recover() can return.
func NewRuntimeError(recovered interface{}, trace []byte) *RuntimeError {
	if nil == trace {
		trace = make([]byte, 0)
	}

	var err error
	switch typed := recovered.(type) {
	case *RuntimeError:
		return typed
	case error:
		err = typed
	case string:
		err = errors.New(typed)
	default:
		err = fmt.Errorf("%+v", typed)
	}

	return &RuntimeError{
		Err:   err,
		Trace: trace,
	}
}
