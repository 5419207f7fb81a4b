package error

import "fmt"

// NoResponseError signals that a phase finished without producing a terminal value.
type NoResponseError struct {
	Phase string
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("phase %s produced no response", e.Phase)
}

//--------------------

func NewNoResponseError(phase string) *NoResponseError {
	return &NoResponseError{Phase: phase}
}
