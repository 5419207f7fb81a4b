package route

import "fmt"

// Arguments are the values handed to a dispatch target: route parameters first,
// then resolved dependencies, in that order.
type Arguments struct {
	names  []string
	values map[string]interface{}
}

func (a *Arguments) Set(name string, value interface{}) {
	if _, exists := a.values[name]; !exists {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

func (a *Arguments) Get(name string) (interface{}, bool) {
	value, exists := a.values[name]

	return value, exists
}

// String formats an argument, empty when it is absent.
func (a *Arguments) String(name string) string {
	value, exists := a.values[name]
	if !exists || nil == value {
		return ""
	}
	if s, isString := value.(string); isString {
		return s
	}

	return fmt.Sprintf("%v", value)
}

func (a *Arguments) Names() []string {
	return cloneStrings(a.names)
}

func (a *Arguments) Len() int {
	return len(a.names)
}

//--------------------

func NewArguments() *Arguments {
	return &Arguments{
		names:  make([]string, 0),
		values: make(map[string]interface{}),
	}
}

// Arg returns a typed argument. The second result is false when the argument is
// absent or holds another type.
func Arg[T any](arguments *Arguments, name string) (T, bool) {
	var zero T

	value, exists := arguments.Get(name)
	if !exists {
		return zero, false
	}
	typed, isT := value.(T)
	if !isT {
		return zero, false
	}

	return typed, true
}
