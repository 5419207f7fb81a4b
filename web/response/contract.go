package response

import (
	"bytes"
	"net/http"

	webKernelError "github.com/bassbeaver/gdispatch/web/error"
)

// Response is what controllers and middleware return. It is written by the kernel.
type Response interface {
	GetHttpStatus() int
	GetHeaders() http.Header
	GetBodyBytes() *bytes.Buffer
}

//--------------------

type basicResponse struct {
	httpStatus int
	headers    http.Header
}

func (r *basicResponse) HeaderSet(key, value string) {
	r.headers.Set(key, value)
}

func (r *basicResponse) GetHeaders() http.Header {
	return r.headers
}

func (r *basicResponse) GetHttpStatus() int {
	return r.httpStatus
}

func (r *basicResponse) SetHttpStatus(status int) {
	r.httpStatus = status
}

func newBasicResponse(status int) basicResponse {
	return basicResponse{
		httpStatus: status,
		headers:    make(http.Header),
	}
}

//--------------------

// NewErrorResponse renders an HttpError as plain text, 405 errors carry the Allow header.
func NewErrorResponse(httpError webKernelError.HttpError) *BytesResponse {
	r := NewTextResponse(httpError.Status(), httpError.Message())
	if methodError, isMethodError := httpError.(*webKernelError.MethodNotAllowedHttpError); isMethodError {
		r.HeaderSet("Allow", methodError.AllowHeader())
	}

	return r
}
