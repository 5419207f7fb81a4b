package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/web/response"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID gives every request an ID, taken from the X-Request-ID header when the
// client sent a valid UUID, and echoes it in the response.
type RequestID struct{}

func (m *RequestID) Process(ctx *ReceivedContext, next pipeline.Handler[*ReceivedContext, response.Response]) response.Response {
	id := ctx.Request.Header.Get(RequestIDHeader)
	if _, parseError := uuid.Parse(id); nil != parseError {
		id = uuid.NewString()
	}
	ctx.ContextAppend(requestIDKey{}, id)

	responseObj := next.Handle(ctx)
	if nil != responseObj {
		responseObj.GetHeaders().Set(RequestIDHeader, id)
	}

	return responseObj
}

//--------------------

func NewRequestID() *RequestID {
	return &RequestID{}
}

// RequestIDFrom returns the ID RequestID stored in ctx, empty when there is none.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}
