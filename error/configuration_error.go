package error

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every route configuration error with errors.Is.
var ErrConfiguration = errors.New("invalid route configuration")

type configurationError struct {
	message string
}

func (e *configurationError) Error() string {
	return e.message
}

func (e *configurationError) Is(target error) bool {
	return target == ErrConfiguration
}

//--------------------

// GroupMismatchError is raised when required (<>) or optional ([]) groups of a path are not balanced.
type GroupMismatchError struct {
	configurationError
	Path string
}

func NewGroupMismatchError(path string) *GroupMismatchError {
	return &GroupMismatchError{
		configurationError: configurationError{
			message: fmt.Sprintf("mismatch of required/optional groups in path %q", path),
		},
		Path: path,
	}
}

//--------------------

// InvalidRoutePathError is raised when a path and the parameters declared for it do not agree.
type InvalidRoutePathError struct {
	configurationError
	Path string
}

func NewInvalidRoutePathError(path, reason string) *InvalidRoutePathError {
	return &InvalidRoutePathError{
		configurationError: configurationError{
			message: fmt.Sprintf("invalid route path %q: %s", path, reason),
		},
		Path: path,
	}
}

//--------------------

// InvalidCastColumnError is raised when an entity cast refers to a column the entity does not have.
type InvalidCastColumnError struct {
	configurationError
	Entity string
	Column string
}

func NewInvalidCastColumnError(entity, column string) *InvalidCastColumnError {
	return &InvalidCastColumnError{
		configurationError: configurationError{
			message: fmt.Sprintf("entity %q has no lookup column %q", entity, column),
		},
		Entity: entity,
		Column: column,
	}
}

//--------------------

// DuplicateRouteNameError is raised when a collection already holds a route with the same name.
type DuplicateRouteNameError struct {
	configurationError
	Name string
}

func NewDuplicateRouteNameError(name string) *DuplicateRouteNameError {
	return &DuplicateRouteNameError{
		configurationError: configurationError{
			message: fmt.Sprintf("route name %q is already registered", name),
		},
		Name: name,
	}
}

//--------------------

// UnknownMiddlewareError is raised when a route refers to middleware nobody registered.
type UnknownMiddlewareError struct {
	configurationError
	Alias string
}

func NewUnknownMiddlewareError(alias, phase string) *UnknownMiddlewareError {
	return &UnknownMiddlewareError{
		configurationError: configurationError{
			message: fmt.Sprintf("middleware %q for phase %s is not registered", alias, phase),
		},
		Alias: alias,
	}
}
