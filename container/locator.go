// Package container adapts the gioc service container to the lookups the kernels do:
// resolving services by alias and controller or middleware methods by "alias:Method".
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/bassbeaver/gioc"
	"github.com/spf13/viper"

	"github.com/bassbeaver/gdispatch/helper"
)

const configServicesPrefix = "services"

var ErrServiceNotFound = errors.New("service not found")

type Locator struct {
	container    *gioc.Container
	aliases      map[string]bool
	aliasesMutex sync.RWMutex
}

// Register adds a service factory. Factory arguments are container aliases or
// parameter references as gioc understands them.
func (l *Locator) Register(alias string, factoryMethod interface{}, arguments []string, enableCaching bool) {
	if nil == arguments {
		arguments = make([]string, 0)
	}

	l.container.RegisterServiceFactoryByAlias(
		alias,
		gioc.Factory{
			Create:    factoryMethod,
			Arguments: arguments,
		},
		enableCaching,
	)

	l.aliasesMutex.Lock()
	defer l.aliasesMutex.Unlock()
	l.aliases[alias] = true
}

// RegisterConfigured registers a factory whose arguments are read from services.<alias>.arguments.
func (l *Locator) RegisterConfigured(config *viper.Viper, alias string, factoryMethod interface{}, enableCaching bool) error {
	configServicePath := configServicesPrefix + "." + alias
	configServiceArgumentsPath := configServicePath + ".arguments"
	if !config.IsSet(configServicePath) {
		return errors.New(alias + " service configuration not found")
	}

	var arguments []string
	if config.IsSet(configServiceArgumentsPath) {
		arguments = config.GetStringSlice(configServiceArgumentsPath)
	}
	l.Register(alias, factoryMethod, arguments, enableCaching)

	return nil
}

// RegisterInstance registers an already built service.
func (l *Locator) RegisterInstance(alias string, service interface{}) {
	serviceType := reflect.TypeOf(service)
	factory := reflect.MakeFunc(
		reflect.FuncOf(nil, []reflect.Type{serviceType}, false),
		func([]reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(service)}
		},
	)

	l.Register(alias, factory.Interface(), nil, true)
}

func (l *Locator) SetParameters(parameters map[string]string) {
	l.container.SetParameters(parameters)
}

func (l *Locator) Has(alias string) bool {
	l.aliasesMutex.RLock()
	defer l.aliasesMutex.RUnlock()

	return l.aliases[alias]
}

func (l *Locator) Aliases() []string {
	l.aliasesMutex.RLock()
	defer l.aliasesMutex.RUnlock()

	result := make([]string, 0, len(l.aliases))
	for alias := range l.aliases {
		result = append(result, alias)
	}
	sort.Strings(result)

	return result
}

// Resolve returns the service registered under alias. Factory panics are returned as errors.
func (l *Locator) Resolve(alias string) (service interface{}, err error) {
	if !l.Has(alias) {
		return nil, fmt.Errorf("%s: %w", alias, ErrServiceNotFound)
	}

	defer func() {
		if recovered := recover(); nil != recovered {
			service = nil
			err = fmt.Errorf("failed to build service %s: %+v", alias, recovered)
		}
	}()

	return l.container.GetByAlias(alias), nil
}

// Method resolves an "alias:Method" reference to the bound method value.
func (l *Locator) Method(reference string) (reflect.Value, error) {
	alias, method, referenceError := helper.SplitReference(reference)
	if nil != referenceError {
		return reflect.Value{}, referenceError
	}

	service, resolveError := l.Resolve(alias)
	if nil != resolveError {
		return reflect.Value{}, resolveError
	}

	methodValue := reflect.ValueOf(service).MethodByName(method)
	if (reflect.Value{}) == methodValue {
		return reflect.Value{}, fmt.Errorf("method %s not found in service %s", method, alias)
	}

	return methodValue, nil
}

func (l *Locator) CheckCycles() error {
	if noCycles, cycledService := l.container.CheckCycles(); !noCycles {
		return errors.New("service " + cycledService + " has circular dependencies")
	}

	return nil
}

//--------------------

func NewLocator() *Locator {
	return &Locator{
		container: gioc.NewContainer(),
		aliases:   make(map[string]bool),
	}
}

// MethodAs resolves an "alias:Method" reference and converts it to the function type T.
func MethodAs[T any](l *Locator, reference string) (T, error) {
	var zero T

	methodValue, methodError := l.Method(reference)
	if nil != methodError {
		return zero, methodError
	}

	targetType := reflect.TypeOf((*T)(nil)).Elem()
	if !methodValue.Type().ConvertibleTo(targetType) {
		return zero, fmt.Errorf("%s has signature %s, expected %s", reference, methodValue.Type(), targetType)
	}

	return methodValue.Convert(targetType).Interface().(T), nil
}
