// Package middleware defines the phases of the CLI kernel and the context each
// phase hands to its middleware.
package middleware

import (
	"time"

	"github.com/bassbeaver/gdispatch/cli/console"
	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/route"
)

const (
	PhaseInputReceived     = "input_received"
	PhaseCommandMatched    = "command_matched"
	PhaseCommandDispatched = "command_dispatched"
	PhaseCommandNotMatched = "command_not_matched"
	PhaseThrowableCaught   = "throwable_caught"
	PhaseExited            = "exited"
)

var Phases = []string{
	PhaseInputReceived,
	PhaseCommandMatched,
	PhaseCommandDispatched,
	PhaseCommandNotMatched,
	PhaseThrowableCaught,
	PhaseExited,
}

// CommandPhases are the phases command specific middleware may be attached to.
var CommandPhases = []string{PhaseCommandMatched, PhaseCommandDispatched, PhaseThrowableCaught, PhaseExited}

// ReceivedContext may replace Input, the kernel matches what is left there.
type ReceivedContext struct {
	Input *console.Input
}

type MatchedContext struct {
	Input   *console.Input
	Command *route.Route
	Params  map[string]string
}

type DispatchedContext struct {
	Input   *console.Input
	Command *route.Route
	Output  *console.Output
}

// NotMatchedContext carries the default output and the commands whose name
// contains what was typed.
type NotMatchedContext struct {
	Input       *console.Input
	Suggestions []string
	Output      *console.Output
}

type ThrowableContext struct {
	Input   *console.Input
	Command *route.Route
	Error   error
	Trace   []byte
	Output  *console.Output
}

type ExitedContext struct {
	Input   *console.Input
	Command *route.Route
	Output  *console.Output
	Started time.Time
}

//--------------------

type (
	ReceivedMiddleware   = pipeline.Middleware[*ReceivedContext, *console.Output]
	MatchedMiddleware    = pipeline.Middleware[*MatchedContext, *console.Output]
	DispatchedMiddleware = pipeline.Middleware[*DispatchedContext, *console.Output]
	NotMatchedMiddleware = pipeline.Middleware[*NotMatchedContext, *console.Output]
	ThrowableMiddleware  = pipeline.Middleware[*ThrowableContext, *console.Output]
	ExitedMiddleware     = pipeline.Middleware[*ExitedContext, *console.Output]

	ReceivedFunc   = pipeline.MiddlewareFunc[*ReceivedContext, *console.Output]
	MatchedFunc    = pipeline.MiddlewareFunc[*MatchedContext, *console.Output]
	DispatchedFunc = pipeline.MiddlewareFunc[*DispatchedContext, *console.Output]
	NotMatchedFunc = pipeline.MiddlewareFunc[*NotMatchedContext, *console.Output]
	ThrowableFunc  = pipeline.MiddlewareFunc[*ThrowableContext, *console.Output]
	ExitedFunc     = pipeline.MiddlewareFunc[*ExitedContext, *console.Output]
)
