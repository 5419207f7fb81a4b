// Package processor normalises routes before they are added to a collection.
package processor

import (
	"fmt"
	"strings"

	kernelError "github.com/bassbeaver/gdispatch/error"
	"github.com/bassbeaver/gdispatch/parser"
	"github.com/bassbeaver/gdispatch/route"
)

// EntitySchema knows the columns of the entities routes may cast parameters to.
type EntitySchema interface {
	Columns(entity string) ([]string, error)
}

type Option func(*Processor)

func WithParser(p *parser.Parser) Option {
	return func(processor *Processor) {
		processor.parser = p
	}
}

func WithEntitySchema(schema EntitySchema) Option {
	return func(processor *Processor) {
		processor.schema = schema
	}
}

// ForCommands makes the processor leave paths without a leading slash.
func ForCommands() Option {
	return func(processor *Processor) {
		processor.commands = true
	}
}

//--------------------

type Processor struct {
	parser   *parser.Parser
	schema   EntitySchema
	commands bool
}

// Process returns the normalised copy of a route. Processing a processed route
// returns an equal route.
func (p *Processor) Process(r *route.Route) (*route.Route, error) {
	definition := r.Definition()

	definition.Path = strings.TrimSpace(definition.Path)
	if !p.commands && !strings.HasPrefix(definition.Path, "/") {
		definition.Path = "/" + definition.Path
	}
	if "" == definition.Path {
		return nil, kernelError.NewInvalidRoutePathError(definition.Path, "path is empty")
	}

	for i, method := range definition.Methods {
		definition.Methods[i] = strings.ToUpper(method)
	}

	if "" == definition.Name {
		definition.Name = defaultName(definition)
	}

	var compileError error
	if "" == definition.Regex {
		definition, compileError = p.compile(definition)
	} else {
		compileError = checkCaptures(definition)
	}
	if nil != compileError {
		return nil, compileError
	}

	for _, parameter := range definition.Parameters {
		if !parameter.Cast.IsEntity() {
			continue
		}
		if castError := p.checkEntityCast(definition.Path, parameter); nil != castError {
			return nil, castError
		}
		definition.Dispatch = definition.Dispatch.WithoutArgument(parameter.Name)
	}

	return route.New(definition), nil
}

func (p *Processor) compile(definition route.Definition) (route.Definition, error) {
	if parser.IsLiteral(definition.Path) {
		if 0 < len(definition.Parameters) {
			return definition, kernelError.NewInvalidRoutePathError(
				definition.Path,
				fmt.Sprintf("parameter %s is not in the path", definition.Parameters[0].Name),
			)
		}

		return definition, nil
	}

	declared := make(map[string]route.Parameter, len(definition.Parameters))
	hints := make([]parser.Hint, 0, len(definition.Parameters))
	for _, parameter := range definition.Parameters {
		declared[parameter.Name] = parameter
		hints = append(hints, parser.Hint{Name: parameter.Name, Regex: parameter.Regex, NoCapture: parameter.NoCapture})
	}

	result, parseError := p.parser.Parse(definition.Path, hints...)
	if nil != parseError {
		return definition, parseError
	}

	for _, parameter := range definition.Parameters {
		if _, inPath := result.Params[parameter.Name]; !inPath {
			return definition, kernelError.NewInvalidRoutePathError(
				definition.Path,
				fmt.Sprintf("parameter %s is not in the path", parameter.Name),
			)
		}
	}

	parameters := make([]route.Parameter, 0, len(result.Names))
	for _, name := range result.Names {
		parameter, isDeclared := declared[name]
		if !isDeclared {
			parameter = route.Parameter{Name: name}
		}
		parameter.Optional = parameter.Optional || result.Params[name].Optional
		parameters = append(parameters, parameter)
	}

	definition.Regex = result.Regex
	definition.Parameters = parameters

	return definition, nil
}

func (p *Processor) checkEntityCast(path string, parameter route.Parameter) error {
	if "" == parameter.Cast.Entity {
		return kernelError.NewInvalidRoutePathError(path, fmt.Sprintf("parameter %s casts to an unnamed entity", parameter.Name))
	}
	if nil == p.schema {
		return nil
	}

	columns, schemaError := p.schema.Columns(parameter.Cast.Entity)
	if nil != schemaError {
		return fmt.Errorf("parameter %s: %w", parameter.Name, schemaError)
	}
	for _, column := range columns {
		if column == parameter.Cast.LookupColumn() {
			return nil
		}
	}

	return kernelError.NewInvalidCastColumnError(parameter.Cast.Entity, parameter.Cast.LookupColumn())
}

//--------------------

func NewProcessor(options ...Option) *Processor {
	p := &Processor{parser: parser.NewParser()}
	for _, option := range options {
		option(p)
	}

	return p
}

func checkCaptures(definition route.Definition) error {
	regex, compileError := parser.Compile(definition.Regex)
	if nil != compileError {
		return kernelError.NewInvalidRoutePathError(definition.Path, compileError.Error())
	}

	captures := route.New(definition).CaptureNames()
	if regex.NumSubexp() != len(captures) {
		return kernelError.NewInvalidRoutePathError(
			definition.Path,
			fmt.Sprintf("regex has %d capture groups for %d parameters", regex.NumSubexp(), len(captures)),
		)
	}

	return nil
}

func defaultName(definition route.Definition) string {
	if 0 == len(definition.Methods) {
		return definition.Path
	}

	return strings.Join(definition.Methods, "|") + " " + definition.Path
}
