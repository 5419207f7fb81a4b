package route

import (
	"context"
	"errors"
	"fmt"
)

// ErrEntityNotFound is wrapped by EntityResolver implementations when no entity matches the value.
var ErrEntityNotFound = errors.New("entity not found")

type EntityResolver interface {
	Resolve(ctx context.Context, entity, column, value string) (interface{}, error)
}

// Locator resolves a service by its container alias.
type Locator interface {
	Resolve(alias string) (interface{}, error)
}

type CastError struct {
	Parameter string
	Value     string
	Err       error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("parameter %s: cannot cast %q: %s", e.Parameter, e.Value, e.Err.Error())
}

func (e *CastError) Unwrap() error {
	return e.Err
}

//--------------------

// Bind builds the arguments of a dispatch: matched parameters with defaults and casts
// applied, then every dependency resolved through the locator.
// Only values the caller sent wrong come back as *CastError, lookup and wiring
// failures are returned as they are.
func (r *Route) Bind(ctx context.Context, raw map[string]string, entities EntityResolver, locator Locator) (*Arguments, error) {
	arguments := NewArguments()

	for _, parameter := range r.def.Parameters {
		// An empty capture is a value, defaults only fill parameters that were not captured.
		value, captured := raw[parameter.Name]
		if !captured {
			if !parameter.Optional && !parameter.NoCapture {
				return nil, &CastError{Parameter: parameter.Name, Err: errors.New("required value is missing")}
			}
			if "" == parameter.Default {
				arguments.Set(parameter.Name, nil)
				continue
			}
			value = parameter.Default
		}

		if parameter.Cast.IsEntity() {
			if nil == entities {
				return nil, fmt.Errorf("parameter %s: no entity resolver configured", parameter.Name)
			}
			entity, resolveError := entities.Resolve(ctx, parameter.Cast.Entity, parameter.Cast.LookupColumn(), value)
			if errors.Is(resolveError, ErrEntityNotFound) {
				return nil, &CastError{Parameter: parameter.Name, Value: value, Err: resolveError}
			}
			if nil != resolveError {
				return nil, fmt.Errorf("parameter %s: %w", parameter.Name, resolveError)
			}
			arguments.Set(parameter.Name, entity)
			continue
		}

		cast, castError := parameter.Cast.Apply(value)
		if nil != castError {
			return nil, &CastError{Parameter: parameter.Name, Value: value, Err: castError}
		}
		arguments.Set(parameter.Name, cast)
	}

	for _, dependency := range r.def.Dispatch.Dependencies {
		if nil == locator {
			return nil, fmt.Errorf("dependency %s: no service locator configured", dependency.Name)
		}
		service, resolveError := locator.Resolve(dependency.Service)
		if nil != resolveError {
			return nil, fmt.Errorf("dependency %s: %w", dependency.Name, resolveError)
		}
		arguments.Set(dependency.Name, service)
	}

	return arguments, nil
}
