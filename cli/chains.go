package cli

import (
	"fmt"
	"strings"

	"github.com/bassbeaver/gdispatch/cli/console"
	"github.com/bassbeaver/gdispatch/cli/middleware"
	"github.com/bassbeaver/gdispatch/container"
	kernelError "github.com/bassbeaver/gdispatch/error"
	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/route"
)

type phaseChains struct {
	received   *pipeline.Chain[*middleware.ReceivedContext, *console.Output]
	matched    *pipeline.Chain[*middleware.MatchedContext, *console.Output]
	dispatched *pipeline.Chain[*middleware.DispatchedContext, *console.Output]
	notMatched *pipeline.Chain[*middleware.NotMatchedContext, *console.Output]
	throwable  *pipeline.Chain[*middleware.ThrowableContext, *console.Output]
	exited     *pipeline.Chain[*middleware.ExitedContext, *console.Output]
}

func (c *phaseChains) merge(commandSpecific *phaseChains) *phaseChains {
	return &phaseChains{
		received:   c.received,
		matched:    c.matched.Merge(commandSpecific.matched),
		dispatched: c.dispatched.Merge(commandSpecific.dispatched),
		notMatched: c.notMatched,
		throwable:  c.throwable.Merge(commandSpecific.throwable),
		exited:     c.exited.Merge(commandSpecific.exited),
	}
}

//--------------------

func (k *Kernel) chainsFor(command *route.Route) *phaseChains {
	if nil != command {
		if chains, exists := k.commandChains[command.Name()]; exists {
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

	for _, command := range k.routes.AllFlattened() {
		items := make(map[string][]interface{})
		for _, phase := range middleware.CommandPhases {
			for _, alias := range command.Middleware(phase) {
				items[phase] = append(items[phase], alias)
			}
		}
		if 0 == len(items) {
			continue
		}

		commandSpecific, commandError := k.assembleChains(items)
		if nil != commandError {
			return fmt.Errorf("command %s: %w", command.Name(), commandError)
		}
		k.commandChains[command.Name()] = global.merge(commandSpecific)
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
	if chains.received, err = pipeline.Assemble[*middleware.ReceivedContext, *console.Output](resolved[middleware.PhaseInputReceived]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseInputReceived, err)
	}
	if chains.matched, err = pipeline.Assemble[*middleware.MatchedContext, *console.Output](resolved[middleware.PhaseCommandMatched]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseCommandMatched, err)
	}
	if chains.dispatched, err = pipeline.Assemble[*middleware.DispatchedContext, *console.Output](resolved[middleware.PhaseCommandDispatched]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseCommandDispatched, err)
	}
	if chains.notMatched, err = pipeline.Assemble[*middleware.NotMatchedContext, *console.Output](resolved[middleware.PhaseCommandNotMatched]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseCommandNotMatched, err)
	}
	if chains.throwable, err = pipeline.Assemble[*middleware.ThrowableContext, *console.Output](resolved[middleware.PhaseThrowableCaught]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseThrowableCaught, err)
	}
	if chains.exited, err = pipeline.Assemble[*middleware.ExitedContext, *console.Output](resolved[middleware.PhaseExited]...); nil != err {
		return nil, fmt.Errorf("phase %s: %w", middleware.PhaseExited, err)
	}

	return chains, nil
}

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
	case middleware.PhaseInputReceived:
		middlewareObj, methodError = container.MethodAs[middleware.ReceivedFunc](k.locator, reference)
	case middleware.PhaseCommandMatched:
		middlewareObj, methodError = container.MethodAs[middleware.MatchedFunc](k.locator, reference)
	case middleware.PhaseCommandDispatched:
		middlewareObj, methodError = container.MethodAs[middleware.DispatchedFunc](k.locator, reference)
	case middleware.PhaseCommandNotMatched:
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
