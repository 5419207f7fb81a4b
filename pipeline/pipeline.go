// Package pipeline runs a context through an ordered chain of middleware and a terminal handler.
//
// Every middleware either returns a value itself, ending the chain, or delegates to
// the next handler. The terminal handler is reached only when all middleware delegate.
package pipeline

import "fmt"

type State int

const (
	StatePending State = iota
	StateDelegating
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDelegating:
		return "delegating"
	case StateTerminal:
		return "terminal"
	}

	return "unknown"
}

type Handler[C, R any] interface {
	Handle(ctx C) R
}

type HandlerFunc[C, R any] func(ctx C) R

func (f HandlerFunc[C, R]) Handle(ctx C) R {
	return f(ctx)
}

type Middleware[C, R any] interface {
	Process(ctx C, next Handler[C, R]) R
}

type MiddlewareFunc[C, R any] func(ctx C, next Handler[C, R]) R

func (f MiddlewareFunc[C, R]) Process(ctx C, next Handler[C, R]) R {
	return f(ctx, next)
}

// Outcome describes one run of a chain.
type Outcome[R any] struct {
	Value R
	State State
	// ShortCircuitedAt is the index of the middleware that answered without delegating,
	// -1 when the terminal handler was reached.
	ShortCircuitedAt int
}

func (o Outcome[R]) ReachedTerminal() bool {
	return -1 == o.ShortCircuitedAt
}

//--------------------

// Chain is immutable, Append and Merge return new chains.
type Chain[C, R any] struct {
	middleware []Middleware[C, R]
}

func (c *Chain[C, R]) Append(middleware ...Middleware[C, R]) *Chain[C, R] {
	return NewChain(append(c.Middleware(), middleware...)...)
}

// Merge returns a chain running c first and then other.
func (c *Chain[C, R]) Merge(other *Chain[C, R]) *Chain[C, R] {
	if nil == other {
		return c.Append()
	}

	return c.Append(other.middleware...)
}

func (c *Chain[C, R]) Middleware() []Middleware[C, R] {
	return append(make([]Middleware[C, R], 0, len(c.middleware)), c.middleware...)
}

func (c *Chain[C, R]) Len() int {
	return len(c.middleware)
}

// Handle runs the chain and returns its value. A nil terminal yields the zero R.
func (c *Chain[C, R]) Handle(ctx C, terminal Handler[C, R]) R {
	return c.Run(ctx, terminal).Value
}

func (c *Chain[C, R]) Run(ctx C, terminal Handler[C, R]) Outcome[R] {
	outcome := Outcome[R]{State: StatePending, ShortCircuitedAt: -1}
	deepest := -1
	reached := false

	var step func(i int) Handler[C, R]
	step = func(i int) Handler[C, R] {
		return HandlerFunc[C, R](func(ctx C) R {
			if i == len(c.middleware) {
				reached = true
				if nil == terminal {
					var zero R
					return zero
				}

				return terminal.Handle(ctx)
			}

			if i > deepest {
				deepest = i
			}
			outcome.State = StateDelegating

			return c.middleware[i].Process(ctx, step(i+1))
		})
	}

	outcome.Value = step(0).Handle(ctx)
	outcome.State = StateTerminal
	if !reached {
		outcome.ShortCircuitedAt = deepest
	}

	return outcome
}

//--------------------

func NewChain[C, R any](middleware ...Middleware[C, R]) *Chain[C, R] {
	chain := &Chain[C, R]{middleware: make([]Middleware[C, R], 0, len(middleware))}
	for _, m := range middleware {
		if nil != m {
			chain.middleware = append(chain.middleware, m)
		}
	}

	return chain
}

// Assemble builds a chain from loosely typed items, as middleware registries hold
// them. Nil items are skipped; any other item must be a Middleware[C, R].
func Assemble[C, R any](items ...interface{}) (*Chain[C, R], error) {
	middleware := make([]Middleware[C, R], 0, len(items))
	for position, item := range items {
		if nil == item {
			continue
		}
		typed, isMiddleware := item.(Middleware[C, R])
		if !isMiddleware {
			return nil, fmt.Errorf("item %d of type %T is not a middleware for %T", position, item, *new(C))
		}
		middleware = append(middleware, typed)
	}

	return NewChain(middleware...), nil
}
