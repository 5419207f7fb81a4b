package web

import (
	"fmt"
	"strings"

	"github.com/bassbeaver/gdispatch/container"
	kernelError "github.com/bassbeaver/gdispatch/error"
	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/route"
	"github.com/bassbeaver/gdispatch/web/middleware"
	"github.com/bassbeaver/gdispatch/web/response"
)

type phaseChains struct {
	received   *pipeline.Chain[*middleware.ReceivedContext, response.Response]
	matched    *pipeline.Chain[*middleware.MatchedContext, response.Response]
	dispatched *pipeline.Chain[*middleware.DispatchedContext, response.Response]
	notMatched *pipeline.Chain[*middleware.NotMatchedContext, response.Response]
	throwable  *pipeline.Chain[*middleware.ThrowableContext, response.Response]
	exited     *pipeline.Chain[*middleware.ExitedContext, response.Response]
}

// merge returns chains running c first and then the route specific ones.
func (c *phaseChains) merge(routeSpecific *phaseChains) *phaseChains {
	return &phaseChains{
		received:   c.received,
		matched:    c.matched.Merge(routeSpecific.matched),
		dispatched: c.dispatched.Merge(routeSpecific.dispatched),
		notMatched: c.notMatched,
		throwable:  c.throwable.Merge(routeSpecific.throwable),
		exited:     c.exited.Merge(routeSpecific.exited),
	}
}

//--------------------

func (k *Kernel) chainsFor(r *route.Route) *phaseChains {
	if nil != r {
		if chains, exists := k.routeChains[r.Name()]; exists {
			return chains
		}
	}

	return k.chains
}

func (k *Kernel) buildChains() error {
	global, globalError := k.assembleChains(k.globalMiddleware)
	if nil != globalError {
		return globalError
	}
	k.chains = global

	for _, r := range k.routes.AllFlattened() {
		items := make(map[string][]interface{})
		for _, phase := range middleware.RoutePhases {
			for _, alias := range r.Middleware(phase) {
				items[phase] = append(items[phase], alias)
			}
		}
		if 0 == len(items) {
			continue
		}

		routeSpecific, routeError := k.assembleChains(items)
		if nil != routeError {
			return fmt.Errorf("route %s: %w", r.Name(), routeError)
		}
		k.routeChains[r.Name()] = global.merge(routeSpecific)
	}

	return nil
}

func (k *Kernel) assembleChains(items map[string][]interface{}) (*phaseChains, error) {
	resolved := make(map[string][]interface{}, len(items))
	for phase, phaseItems := range items {
		for _, item := range phaseItems {
			middlewareObj, resolveError := k.resolveMiddleware(phase, item)
			if nil != resolveError {
				return nil, resolveError
			}
			resolved[phase] = append(resolved[phase], middlewareObj)
		}
	}

	var err error
	chains := &phaseChains{}
	if chains.received, err = pipeline.Assemble[*middleware.ReceivedContext, response.Response](resolved[middleware.PhaseRequestReceived]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseRequestReceived, err)
	}
	if chains.matched, err = pipeline.Assemble[*middleware.MatchedContext, response.Response](resolved[middleware.PhaseRouteMatched]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseRouteMatched, err)
	}
	if chains.dispatched, err = pipeline.Assemble[*middleware.DispatchedContext, response.Response](resolved[middleware.PhaseRouteDispatched]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseRouteDispatched, err)
	}
	if chains.notMatched, err = pipeline.Assemble[*middleware.NotMatchedContext, response.Response](resolved[middleware.PhaseRouteNotMatched]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseRouteNotMatched, err)
	}
	if chains.throwable, err = pipeline.Assemble[*middleware.ThrowableContext, response.Response](resolved[middleware.PhaseThrowableCaught]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseThrowableCaught, err)
	}
	if chains.exited, err = pipeline.Assemble[*middleware.ExitedContext, response.Response](resolved[middleware.PhaseExited]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseExited, err)
	}

	return chains, nil
}

// resolveMiddleware turns a registered alias or an "alias:Method" reference into
// middleware. Anything else is returned as is.
func (k *Kernel) resolveMiddleware(phase string, item interface{}) (interface{}, error) {
	reference, isReference := item.(string)
	if !isReference {
		return item, nil
	}

	if middlewareObj, registered := k.namedMiddleware[reference]; registered {
		return middlewareObj, nil
	}
	if !strings.Contains(reference, ":") || !k.locator.Has(strings.SplitN(reference, ":", 2)[0]) {
		return nil, kernelError.NewUnknownMiddlewareError(reference, phase)
	}

	var middlewareObj interface{}
	var methodError error
	switch phase {
	case middleware.PhaseRequestReceived:
		middlewareObj, methodError = container.MethodAs[middleware.ReceivedFunc](k.locator, reference)
	case middleware.PhaseRouteMatched:
		middlewareObj, methodError = container.MethodAs[middleware.MatchedFunc](k.locator, reference)
	case middleware.PhaseRouteDispatched:
		middlewareObj, methodError = container.MethodAs[middleware.DispatchedFunc](k.locator, reference)
	case middleware.PhaseRouteNotMatched:
		middlewareObj, methodError = container.MethodAs[middleware.NotMatchedFunc](k.locator, reference)
	case middleware.PhaseThrowableCaught:
		middlewareObj, methodError = container.MethodAs[middleware.ThrowableFunc](k.locator, reference)
	case middleware.PhaseExited:
		middlewareObj, methodError = container.MethodAs[middleware.ExitedFunc](k.locator, reference)
	default:
		return nil, fmt.Errorf("unknown phase %s", phase)
	}
	if nil != methodError {
		return nil, fmt.Errorf("middleware %s: %w", reference, methodError)
	}

	return middlewareObj, nil
}
