// Package collection indexes processed routes for lookup.
//
// Routes with a literal path live in a static index keyed by method and path and
// are found without evaluating any regex. Routes with a regex are kept per method
// in registration order and the first one matching wins. Every route is also
// reachable by its name.
package collection

import (
	"fmt"
	"regexp"
	"strings"

	kernelError "github.com/bassbeaver/gdispatch/error"
	"github.com/bassbeaver/gdispatch/parser"
	"github.com/bassbeaver/gdispatch/route"
)

// AnyMethod is the index key of routes bound to no method, e.g. CLI commands.
const AnyMethod = ""

type dynamicRoute struct {
	route *route.Route
	regex *regexp.Regexp
}

type dynamicIndex struct {
	order  []string
	routes map[string]*dynamicRoute
}

//--------------------

type Collection struct {
	static  map[string]map[string]*route.Route
	dynamic map[string]*dynamicIndex
	named   map[string]*route.Route
	order   []*route.Route
}

// Add indexes a processed route. A second route with the same name is rejected;
// a second route with the same method and path (or regex) replaces the first one
// for that method.
func (c *Collection) Add(r *route.Route) error {
	if "" == r.Name() {
		return kernelError.NewInvalidRoutePathError(r.Path(), "route has no name")
	}
	if _, exists := c.named[r.Name()]; exists {
		return kernelError.NewDuplicateRouteNameError(r.Name())
	}

	methods := r.Methods()
	if 0 == len(methods) {
		methods = []string{AnyMethod}
	}

	if r.IsDynamic() {
		regex, compileError := parser.Compile(r.Regex())
		if nil != compileError {
			return kernelError.NewInvalidRoutePathError(r.Path(), compileError.Error())
		}
		for _, method := range methods {
			c.addDynamic(method, r, regex)
		}
	} else {
		for _, method := range methods {
			if _, exists := c.static[method]; !exists {
				c.static[method] = make(map[string]*route.Route)
			}
			c.static[method][r.Path()] = r
		}
	}

	c.named[r.Name()] = r
	c.order = append(c.order, r)

	return nil
}

func (c *Collection) addDynamic(method string, r *route.Route, regex *regexp.Regexp) {
	index, exists := c.dynamic[method]
	if !exists {
		index = &dynamicIndex{routes: make(map[string]*dynamicRoute)}
		c.dynamic[method] = index
	}

	if _, taken := index.routes[r.Regex()]; !taken {
		index.order = append(index.order, r.Regex())
	}
	index.routes[r.Regex()] = &dynamicRoute{route: r, regex: regex}
}

// Get finds the route for a path. An empty method searches every method.
func (c *Collection) Get(path, method string) (*route.Route, bool) {
	r, _, found := c.Match(path, method)

	return r, found
}

// Match is Get that also returns the raw values captured for the route parameters.
func (c *Collection) Match(path, method string) (*route.Route, map[string]string, bool) {
	for _, m := range c.searchOrder(method) {
		if r, exists := c.static[m][path]; exists {
			return r, map[string]string{}, true
		}
	}

	for _, m := range c.searchOrder(method) {
		index, exists := c.dynamic[m]
		if !exists {
			continue
		}
		for _, key := range index.order {
			candidate := index.routes[key]
			matches := candidate.regex.FindStringSubmatchIndex(path)
			if nil == matches {
				continue
			}

			return candidate.route, captured(candidate.route, path, matches[2:]), true
		}
	}

	return nil, nil, false
}

func (c *Collection) searchOrder(method string) []string {
	if AnyMethod == method {
		return append([]string{AnyMethod}, route.Methods...)
	}

	return []string{strings.ToUpper(method), AnyMethod}
}

// Methods lists the methods a path is routable with, in route.Methods order.
func (c *Collection) Methods(path string) []string {
	result := make([]string, 0)
	for _, method := range route.Methods {
		if _, _, found := c.matchExactly(path, method); found {
			result = append(result, method)
		}
	}

	return result
}

func (c *Collection) matchExactly(path, method string) (*route.Route, map[string]string, bool) {
	if r, exists := c.static[method][path]; exists {
		return r, nil, true
	}
	if index, exists := c.dynamic[method]; exists {
		for _, key := range index.order {
			if index.routes[key].regex.MatchString(path) {
				return index.routes[key].route, nil, true
			}
		}
	}

	return nil, nil, false
}

func (c *Collection) GetByName(name string) (*route.Route, bool) {
	r, exists := c.named[name]

	return r, exists
}

func (c *Collection) Has(name string) bool {
	_, exists := c.named[name]

	return exists
}

func (c *Collection) Len() int {
	return len(c.order)
}

// All groups the routes currently answering each method.
func (c *Collection) All() map[string][]*route.Route {
	result := make(map[string][]*route.Route)
	for _, r := range c.order {
		methods := r.Methods()
		if 0 == len(methods) {
			methods = []string{AnyMethod}
		}
		for _, method := range methods {
			if c.answers(method, r) {
				result[method] = append(result[method], r)
			}
		}
	}

	return result
}

// AllFlattened lists every registered route once, in registration order.
func (c *Collection) AllFlattened() []*route.Route {
	return append([]*route.Route(nil), c.order...)
}

// Definitions returns what is needed to rebuild the collection, in registration order.
func (c *Collection) Definitions() []route.Definition {
	result := make([]route.Definition, 0, len(c.order))
	for _, r := range c.order {
		result = append(result, r.Definition())
	}

	return result
}

func (c *Collection) answers(method string, r *route.Route) bool {
	if r.IsDynamic() {
		index, exists := c.dynamic[method]

		return exists && nil != index.routes[r.Regex()] && index.routes[r.Regex()].route == r
	}

	return c.static[method][r.Path()] == r
}

// URL renders the path of a named route. Optional groups are kept only when every
// parameter inside them has a value.
func (c *Collection) URL(name string, values map[string]string) (string, error) {
	r, exists := c.named[name]
	if !exists {
		return "", fmt.Errorf("route %q is not registered", name)
	}
	if !r.IsDynamic() {
		return r.Path(), nil
	}

	rendered, _, complete := render(r.Path(), 0, values)
	if !complete {
		return "", fmt.Errorf("route %q: missing values for required parameters", name)
	}

	return rendered, nil
}

//--------------------

func NewCollection() *Collection {
	return &Collection{
		static:  make(map[string]map[string]*route.Route),
		dynamic: make(map[string]*dynamicIndex),
		named:   make(map[string]*route.Route),
		order:   make([]*route.Route, 0),
	}
}

// FromDefinitions rebuilds a collection from already processed definitions.
func FromDefinitions(definitions []route.Definition) (*Collection, error) {
	c := NewCollection()
	for _, definition := range definitions {
		if addError := c.Add(route.New(definition)); nil != addError {
			return nil, addError
		}
	}

	return c, nil
}

// captured maps parameter names to their groups. A group inside an optional part that
// did not take part in the match is left out, an empty match is kept.
func captured(r *route.Route, path string, groups []int) map[string]string {
	names := r.CaptureNames()
	result := make(map[string]string, len(names))
	for i, name := range names {
		if 2*i+1 >= len(groups) || 0 > groups[2*i] {
			continue
		}
		result[name] = path[groups[2*i]:groups[2*i+1]]
	}

	return result
}

// render walks a path from position start until the end of the current group and
// reports where it stopped and whether every parameter on the way had a value.
func render(path string, start int, values map[string]string) (string, int, bool) {
	var out strings.Builder
	complete := true

	for i := start; i < len(path); i++ {
		switch path[i] {
		case '{':
			depth, end := 0, i
			for ; end < len(path); end++ {
				if '{' == path[end] {
					depth++
				} else if '}' == path[end] {
					depth--
					if 0 == depth {
						break
					}
				}
			}
			body := path[i+1 : end]
			if colon := strings.IndexByte(body, ':'); colon >= 0 {
				body = body[:colon]
			}
			value, exists := values[strings.TrimSpace(body)]
			if !exists || "" == value {
				complete = false
			}
			out.WriteString(value)
			i = end
		case '[':
			group, end, groupComplete := render(path, i+1, values)
			if groupComplete {
				out.WriteString(group)
			}
			i = end
		case ']':
			return out.String(), i, complete
		case '<', '>', '*':
		default:
			out.WriteByte(path[i])
		}
	}

	return out.String(), len(path), complete
}
