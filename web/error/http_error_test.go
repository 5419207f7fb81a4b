package error_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	webKernelError "github.com/bassbeaver/gdispatch/web/error"
)

func TestHttpErrors(t *testing.T) {
	cause := errors.New("id is not a number")

	tests := []struct {
		name    string
		err     webKernelError.HttpError
		status  int
		message string
		text    string
	}{
		{"not found", webKernelError.NewNotFoundHttpError(), http.StatusNotFound, "Not Found", "Not Found"},
		{"method not allowed", webKernelError.NewMethodNotAllowedHttpError([]string{"GET"}), http.StatusMethodNotAllowed, "Method Not Allowed", "Method Not Allowed"},
		{"bad request", webKernelError.NewBadRequestHttpError(cause), http.StatusBadRequest, "Bad Request", "Bad Request: id is not a number"},
		{"unauthorized", webKernelError.NewUnauthorizedHttpError(), http.StatusUnauthorized, "Unauthorized", "Unauthorized"},
		{"internal", webKernelError.NewInternalServerHttpError(nil), http.StatusInternalServerError, "Internal Server Error", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
			assert.Equal(t, tt.message, tt.err.Message())
			assert.EqualError(t, tt.err, tt.text)
		})
	}
}

func TestBadRequestHttpError_Unwraps(t *testing.T) {
	cause := errors.New("bad value")
	err := webKernelError.NewBadRequestHttpError(cause)

	assert.ErrorIs(t, err, cause)

	var httpError webKernelError.HttpError
	assert.True(t, errors.As(errors.Join(errors.New("outer"), err), &httpError))
	assert.Equal(t, http.StatusBadRequest, httpError.Status())
}

func TestMethodNotAllowedHttpError_AllowHeader(t *testing.T) {
	err := webKernelError.NewMethodNotAllowedHttpError([]string{"GET", "HEAD", "POST"})

	assert.Equal(t, "GET, HEAD, POST", err.AllowHeader())
}
