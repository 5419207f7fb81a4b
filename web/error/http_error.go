package error

import (
	"net/http"
	"strings"
)

// HttpError is an error that knows the HTTP response it should turn into.
type HttpError interface {
	error
	Status() int
	Message() string
}

//--------------------

type basicHttpError struct {
	status  int
	message string
	cause   error
}

func (e *basicHttpError) Status() int {
	return e.status
}

func (e *basicHttpError) Message() string {
	return e.message
}

func (e *basicHttpError) Error() string {
	if nil != e.cause {
		return e.message + ": " + e.cause.Error()
	}

	return e.message
}

func (e *basicHttpError) Unwrap() error {
	return e.cause
}

func newBasicHttpError(status int, cause error) basicHttpError {
	return basicHttpError{
		status:  status,
		message: http.StatusText(status),
		cause:   cause,
	}
}

//--------------------

type NotFoundHttpError struct {
	basicHttpError
}

func NewNotFoundHttpError() *NotFoundHttpError {
	return &NotFoundHttpError{newBasicHttpError(http.StatusNotFound, nil)}
}

//--------------------

// MethodNotAllowedHttpError lists the methods the path answers to.
type MethodNotAllowedHttpError struct {
	basicHttpError
	Allowed []string
}

func (e *MethodNotAllowedHttpError) AllowHeader() string {
	return strings.Join(e.Allowed, ", ")
}

func NewMethodNotAllowedHttpError(allowed []string) *MethodNotAllowedHttpError {
	return &MethodNotAllowedHttpError{
		basicHttpError: newBasicHttpError(http.StatusMethodNotAllowed, nil),
		Allowed:        allowed,
	}
}

//--------------------

// BadRequestHttpError is raised when route parameters can not be bound, cause says why.
type BadRequestHttpError struct {
	basicHttpError
}

func NewBadRequestHttpError(cause error) *BadRequestHttpError {
	return &BadRequestHttpError{newBasicHttpError(http.StatusBadRequest, cause)}
}

//--------------------

type UnauthorizedHttpError struct {
	basicHttpError
}

func NewUnauthorizedHttpError() *UnauthorizedHttpError {
	return &UnauthorizedHttpError{newBasicHttpError(http.StatusUnauthorized, nil)}
}

//--------------------

type InternalServerHttpError struct {
	basicHttpError
}

func NewInternalServerHttpError(cause error) *InternalServerHttpError {
	return &InternalServerHttpError{newBasicHttpError(http.StatusInternalServerError, cause)}
}
