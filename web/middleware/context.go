// Package middleware defines the phases of the HTTP kernel, the context each phase
// hands to its middleware, and the middleware shipped with the kernel.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/route"
	"github.com/bassbeaver/gdispatch/web/response"
)

const (
	PhaseRequestReceived = "request_received"
	PhaseRouteMatched    = "route_matched"
	PhaseRouteDispatched = "route_dispatched"
	PhaseRouteNotMatched = "route_not_matched"
	PhaseThrowableCaught = "throwable_caught"
	PhaseExited          = "exited"
)

// Phases lists the phases in the order a request may go through them.
var Phases = []string{
	PhaseRequestReceived,
	PhaseRouteMatched,
	PhaseRouteDispatched,
	PhaseRouteNotMatched,
	PhaseThrowableCaught,
	PhaseExited,
}

// RoutePhases are the phases route specific middleware may be attached to.
var RoutePhases = []string{PhaseRouteMatched, PhaseRouteDispatched, PhaseThrowableCaught, PhaseExited}

type RequestHolder struct {
	Request *http.Request
}

func (h *RequestHolder) Context() context.Context {
	return h.Request.Context()
}

// ContextAppend adds a value to the request context. The request is updated in place,
// so later phases and the failure path see the value too.
func (h *RequestHolder) ContextAppend(key, val interface{}) {
	*h.Request = *h.Request.WithContext(context.WithValue(h.Request.Context(), key, val))
}

//--------------------

// ReceivedContext is handed to RequestReceived middleware before any routing.
type ReceivedContext struct {
	RequestHolder
}

// MatchedContext carries the matched route and the raw values of its parameters.
type MatchedContext struct {
	RequestHolder
	Route  *route.Route
	Params map[string]string
}

// DispatchedContext carries the controller response.
type DispatchedContext struct {
	RequestHolder
	Route    *route.Route
	Response response.Response
}

// NotMatchedContext carries the default response, 404 or 405 when Allowed is not empty.
type NotMatchedContext struct {
	RequestHolder
	Allowed  []string
	Response response.Response
}

// ThrowableContext carries the failure and the default response rendered for it.
// Route is nil when the failure happened before matching.
type ThrowableContext struct {
	RequestHolder
	Route    *route.Route
	Error    error
	Trace    []byte
	Response response.Response
}

type ExitedContext struct {
	RequestHolder
	Route    *route.Route
	Response response.Response
	Started  time.Time
}

//--------------------

type (
	ReceivedMiddleware   = pipeline.Middleware[*ReceivedContext, response.Response]
	MatchedMiddleware    = pipeline.Middleware[*MatchedContext, response.Response]
	DispatchedMiddleware = pipeline.Middleware[*DispatchedContext, response.Response]
	NotMatchedMiddleware = pipeline.Middleware[*NotMatchedContext, response.Response]
	ThrowableMiddleware  = pipeline.Middleware[*ThrowableContext, response.Response]
	ExitedMiddleware     = pipeline.Middleware[*ExitedContext, response.Response]

	ReceivedFunc   = pipeline.MiddlewareFunc[*ReceivedContext, response.Response]
	MatchedFunc    = pipeline.MiddlewareFunc[*MatchedContext, response.Response]
	DispatchedFunc = pipeline.MiddlewareFunc[*DispatchedContext, response.Response]
	NotMatchedFunc = pipeline.MiddlewareFunc[*NotMatchedContext, response.Response]
	ThrowableFunc  = pipeline.MiddlewareFunc[*ThrowableContext, response.Response]
	ExitedFunc     = pipeline.MiddlewareFunc[*ExitedContext, response.Response]
)
