// Package route holds the immutable description of a routable endpoint.
//
// A Route is built from a Definition and never changes afterwards: every With*
// method returns a modified copy. Definitions are what configuration files and
// route caches carry.
package route

import (
	"net/http"
	"strings"
)

// Methods is the set of HTTP methods a route may bind to.
var Methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

type Definition struct {
	Name       string              `mapstructure:"name" yaml:"name" json:"name"`
	Path       string              `mapstructure:"path" yaml:"path" json:"path"`
	Methods    []string            `mapstructure:"methods" yaml:"methods,omitempty" json:"methods,omitempty"`
	Regex      string              `mapstructure:"regex" yaml:"regex,omitempty" json:"regex,omitempty"`
	Parameters []Parameter         `mapstructure:"parameters" yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Dispatch   Dispatch            `mapstructure:"dispatch" yaml:"dispatch" json:"dispatch"`
	Middleware map[string][]string `mapstructure:"middleware" yaml:"middleware,omitempty" json:"middleware,omitempty"`
}

func (d Definition) clone() Definition {
	result := d
	result.Methods = cloneStrings(d.Methods)
	result.Parameters = append([]Parameter(nil), d.Parameters...)
	result.Dispatch = d.Dispatch.clone()
	if nil != d.Middleware {
		result.Middleware = make(map[string][]string, len(d.Middleware))
		for phase, aliases := range d.Middleware {
			result.Middleware[phase] = cloneStrings(aliases)
		}
	}

	return result
}

//--------------------

type Route struct {
	def Definition
}

func (r *Route) Name() string {
	return r.def.Name
}

func (r *Route) Path() string {
	return r.def.Path
}

func (r *Route) Methods() []string {
	return cloneStrings(r.def.Methods)
}

func (r *Route) Regex() string {
	return r.def.Regex
}

// IsDynamic reports whether the route has to be matched by its regex.
func (r *Route) IsDynamic() bool {
	return "" != r.def.Regex
}

func (r *Route) Parameters() []Parameter {
	return append([]Parameter(nil), r.def.Parameters...)
}

func (r *Route) Parameter(name string) (Parameter, bool) {
	for _, parameter := range r.def.Parameters {
		if parameter.Name == name {
			return parameter, true
		}
	}

	return Parameter{}, false
}

// CaptureNames lists capturing parameters in the order their groups appear in the regex.
func (r *Route) CaptureNames() []string {
	names := make([]string, 0, len(r.def.Parameters))
	for _, parameter := range r.def.Parameters {
		if !parameter.NoCapture {
			names = append(names, parameter.Name)
		}
	}

	return names
}

func (r *Route) Dispatch() Dispatch {
	return r.def.Dispatch.clone()
}

// Middleware returns the aliases of route specific middleware for a phase.
func (r *Route) Middleware(phase string) []string {
	return cloneStrings(r.def.Middleware[phase])
}

func (r *Route) HasMethod(method string) bool {
	for _, m := range r.def.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}

	return false
}

func (r *Route) Definition() Definition {
	return r.def.clone()
}

func (r *Route) WithName(name string) *Route {
	result := r.copy()
	result.def.Name = name

	return result
}

func (r *Route) WithPath(path string) *Route {
	result := r.copy()
	result.def.Path = path

	return result
}

func (r *Route) WithMethods(methods ...string) *Route {
	result := r.copy()
	result.def.Methods = make([]string, 0, len(methods))
	for _, method := range methods {
		result.def.Methods = append(result.def.Methods, strings.ToUpper(method))
	}

	return result
}

func (r *Route) WithRegex(regex string) *Route {
	result := r.copy()
	result.def.Regex = regex

	return result
}

func (r *Route) WithParameters(parameters ...Parameter) *Route {
	result := r.copy()
	result.def.Parameters = append([]Parameter(nil), parameters...)

	return result
}

// WithParameter replaces the parameter with the same name or appends a new one.
func (r *Route) WithParameter(parameter Parameter) *Route {
	result := r.copy()
	for i, existing := range result.def.Parameters {
		if existing.Name == parameter.Name {
			result.def.Parameters[i] = parameter

			return result
		}
	}
	result.def.Parameters = append(result.def.Parameters, parameter)

	return result
}

func (r *Route) WithDispatch(dispatch Dispatch) *Route {
	result := r.copy()
	result.def.Dispatch = dispatch.clone()

	return result
}

// WithMiddleware appends middleware aliases to a phase.
func (r *Route) WithMiddleware(phase string, aliases ...string) *Route {
	result := r.copy()
	if nil == result.def.Middleware {
		result.def.Middleware = make(map[string][]string)
	}
	result.def.Middleware[phase] = append(result.def.Middleware[phase], aliases...)

	return result
}

func (r *Route) copy() *Route {
	return &Route{def: r.def.clone()}
}

//--------------------

func New(def Definition) *Route {
	return &Route{def: def.clone()}
}

func cloneStrings(source []string) []string {
	if nil == source {
		return nil
	}

	return append(make([]string, 0, len(source)), source...)
}
