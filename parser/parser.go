// Package parser compiles the route path DSL into a regular expression.
//
// The DSL is literal text mixed with:
//
//	{name}           required capturing parameter
//	{name:pattern}   parameter with an explicit pattern or a named pattern from the table
//	[...]            optional group, may be nested
//	<...>            required non-capturing group
//	<...*>           required repeatable group
//	[...*]           optional repeatable group
//
// Parse returns the regex in delimited form, e.g. "/users/{id:\d+}" becomes
// `/^\/users\/(\d+)$/`. Compile turns such a string into a *regexp.Regexp.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	kernelError "github.com/bassbeaver/gdispatch/error"
)

const (
	// DefaultPattern is used for a parameter without pattern and without a table entry.
	DefaultPattern = `[^/]+`

	placeholderOpen  = '\uE000'
	placeholderClose = '\uE001'
)

// DefaultPatterns is the named pattern table every Parser starts with.
var DefaultPatterns = map[string]string{
	"num":      `\d+`,
	"id":       `\d+`,
	"slug":     `[a-zA-Z0-9-]+`,
	"alpha":    `[a-zA-Z]+`,
	"alphanum": `[a-zA-Z0-9]+`,
	"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"any":      `.*`,
	"path":     `.+`,
}

var parameterNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)

// Hint carries what a route already declares about a parameter.
type Hint struct {
	Name      string
	Regex     string
	NoCapture bool
}

// Param is one parameter found in the path.
type Param struct {
	// Token is the placeholder exactly as written in the path.
	Token string
	// Regex is the inline fragment the token was replaced with.
	Regex   string
	Capture bool
	// Optional is set when the parameter sits inside an optional group.
	Optional bool
}

type Result struct {
	Regex    string
	Params   map[string]Param
	Names    []string
	Segments []string
}

// CaptureNames returns the names of capturing parameters in capture group order.
func (r *Result) CaptureNames() []string {
	names := make([]string, 0, len(r.Names))
	for _, name := range r.Names {
		if r.Params[name].Capture {
			names = append(names, name)
		}
	}

	return names
}

//--------------------

type Parser struct {
	patterns map[string]string
}

// WithPattern returns a parser that knows one more named pattern.
func (p *Parser) WithPattern(name, regex string) *Parser {
	patterns := make(map[string]string, len(p.patterns)+1)
	for k, v := range p.patterns {
		patterns[k] = v
	}
	patterns[name] = regex

	return &Parser{patterns: patterns}
}

func (p *Parser) Pattern(name string) (string, bool) {
	regex, exists := p.patterns[name]

	return regex, exists
}

func (p *Parser) Parse(path string, hints ...Hint) (*Result, error) {
	protected, tokens, tokenError := protect(path)
	if nil != tokenError {
		return nil, tokenError
	}

	if !groupsNested(protected) {
		return nil, kernelError.NewGroupMismatchError(path)
	}

	hintsByName := make(map[string]Hint, len(hints))
	for _, hint := range hints {
		hintsByName[hint.Name] = hint
	}

	result := &Result{
		Params: make(map[string]Param, len(tokens)),
		Names:  make([]string, 0, len(tokens)),
	}

	optional := optionalTokens(protected)
	inline := make([]string, len(tokens))
	for i, token := range tokens {
		name, pattern := splitToken(token)
		if !parameterNameRegex.MatchString(name) || "" == name {
			return nil, kernelError.NewInvalidRoutePathError(path, fmt.Sprintf("bad parameter name in %s", token))
		}
		if _, duplicate := result.Params[name]; duplicate {
			return nil, kernelError.NewInvalidRoutePathError(path, fmt.Sprintf("parameter %s is used more than once", name))
		}

		hint := hintsByName[name]
		regex := nonCapturing(p.resolve(name, pattern, hint))
		if hint.NoCapture {
			regex = "(?:" + regex + ")"
		} else {
			regex = "(" + regex + ")"
		}

		inline[i] = regex
		result.Names = append(result.Names, name)
		result.Params[name] = Param{
			Token:    token,
			Regex:    regex,
			Capture:  !hint.NoCapture,
			Optional: optional[i],
		}
	}

	segments := strings.Split(protected, "[")

	var compiled strings.Builder
	for i, segment := range segments {
		if i > 0 {
			compiled.WriteString("(?:")
		}
		compiled.WriteString(compileSegment(segment))
	}

	regex := restore(compiled.String(), inline)
	result.Regex = "/^" + escapeSlashes(regex) + "$/"
	result.Segments = splitSegments(segments, tokens)

	if _, compileError := Compile(result.Regex); nil != compileError {
		return nil, kernelError.NewInvalidRoutePathError(path, compileError.Error())
	}

	return result, nil
}

func (p *Parser) resolve(name, pattern string, hint Hint) string {
	if "" != pattern {
		if regex, named := p.patterns[pattern]; named {
			return regex
		}

		return pattern
	}

	if "" != hint.Regex {
		if regex, named := p.patterns[hint.Regex]; named {
			return regex
		}

		return hint.Regex
	}

	if regex, named := p.patterns[name]; named {
		return regex
	}

	return DefaultPattern
}

//--------------------

func NewParser() *Parser {
	patterns := make(map[string]string, len(DefaultPatterns))
	for name, regex := range DefaultPatterns {
		patterns[name] = regex
	}

	return &Parser{patterns: patterns}
}

// IsLiteral reports whether a path has neither parameters nor groups.
func IsLiteral(path string) bool {
	return !strings.ContainsAny(path, "{}[]<>")
}

// Compile turns a delimited regex produced by Parse into a *regexp.Regexp.
func Compile(delimited string) (*regexp.Regexp, error) {
	if len(delimited) < 2 || '/' != delimited[0] || '/' != delimited[len(delimited)-1] {
		return nil, fmt.Errorf("regex %q is not delimited with slashes", delimited)
	}

	return regexp.Compile(delimited[1 : len(delimited)-1])
}

// protect replaces every {...} placeholder with an indexed sentinel, so that group
// characters inside a parameter pattern are never taken for DSL groups.
func protect(path string) (string, []string, error) {
	var out strings.Builder
	tokens := make([]string, 0)

	for i := 0; i < len(path); {
		switch path[i] {
		case '{':
			end, found := closingBrace(path, i)
			if !found {
				return "", nil, kernelError.NewInvalidRoutePathError(path, "unclosed parameter brace")
			}
			out.WriteRune(placeholderOpen)
			out.WriteString(strconv.Itoa(len(tokens)))
			out.WriteRune(placeholderClose)
			tokens = append(tokens, path[i:end+1])
			i = end + 1
		case '}':
			return "", nil, kernelError.NewInvalidRoutePathError(path, "unexpected closing brace")
		default:
			out.WriteByte(path[i])
			i++
		}
	}

	return out.String(), tokens, nil
}

// groupsNested reports whether every [ and < is closed by its own bracket, in order.
func groupsNested(path string) bool {
	closers := make([]byte, 0)
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			closers = append(closers, ']')
		case '<':
			closers = append(closers, '>')
		case ']', '>':
			if 0 == len(closers) || closers[len(closers)-1] != path[i] {
				return false
			}
			closers = closers[:len(closers)-1]
		}
	}

	return 0 == len(closers)
}

func closingBrace(path string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(path); i++ {
		switch path[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if 0 == depth {
				return i, true
			}
		}
	}

	return 0, false
}

func splitToken(token string) (name, pattern string) {
	body := token[1 : len(token)-1]
	if colon := strings.IndexByte(body, ':'); colon >= 0 {
		return strings.TrimSpace(body[:colon]), strings.TrimSpace(body[colon+1:])
	}

	return strings.TrimSpace(body), ""
}

// compileSegment rewrites group tokens into regex groups and quotes literal text.
func compileSegment(segment string) string {
	var out, literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			out.WriteString(regexp.QuoteMeta(literal.String()))
			literal.Reset()
		}
	}

	for i := 0; i < len(segment); {
		r, size := utf8.DecodeRuneInString(segment[i:])
		switch {
		case placeholderOpen == r:
			flush()
			end := strings.IndexRune(segment[i:], placeholderClose)
			out.WriteString(segment[i : i+end+utf8.RuneLen(placeholderClose)])
			i += end + utf8.RuneLen(placeholderClose)
			continue
		case '<' == r:
			flush()
			out.WriteString("(?:")
		case '*' == r && strings.HasPrefix(segment[i+1:], ">"):
			flush()
			out.WriteString(")*")
			size++
		case '>' == r:
			flush()
			out.WriteString(")")
		case '*' == r && strings.HasPrefix(segment[i+1:], "]"):
			flush()
			out.WriteString(")*?")
			size++
		case ']' == r:
			flush()
			out.WriteString(")?")
		default:
			literal.WriteRune(r)
		}
		i += size
	}
	flush()

	return out.String()
}

func restore(compiled string, inline []string) string {
	var out strings.Builder
	for i := 0; i < len(compiled); {
		r, size := utf8.DecodeRuneInString(compiled[i:])
		if placeholderOpen != r {
			out.WriteRune(r)
			i += size
			continue
		}
		end := strings.IndexRune(compiled[i:], placeholderClose)
		index, _ := strconv.Atoi(compiled[i+size : i+end])
		out.WriteString(inline[index])
		i += end + utf8.RuneLen(placeholderClose)
	}

	return out.String()
}

// optionalTokens reports, per placeholder index, whether it is nested in an optional group.
func optionalTokens(protected string) map[int]bool {
	result := make(map[int]bool)
	depth := 0
	for i := 0; i < len(protected); {
		r, size := utf8.DecodeRuneInString(protected[i:])
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case placeholderOpen:
			end := strings.IndexRune(protected[i:], placeholderClose)
			index, _ := strconv.Atoi(protected[i+size : i+end])
			result[index] = depth > 0
			i += end + utf8.RuneLen(placeholderClose)
			continue
		}
		i += size
	}

	return result
}

// nonCapturing rewrites the groups of a parameter pattern as non-capturing, so that
// each capturing parameter owns exactly one group of the route regex.
func nonCapturing(pattern string) string {
	var out strings.Builder
	inClass := false

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case '\\' == c && i+1 < len(pattern):
			out.WriteByte(c)
			out.WriteByte(pattern[i+1])
			i++
			continue
		case '[' == c && !inClass:
			inClass = true
		case ']' == c && inClass:
			inClass = false
		case '(' == c && !inClass:
			rest := pattern[i+1:]
			if strings.HasPrefix(rest, "?P<") || strings.HasPrefix(rest, "?<") {
				if end := strings.IndexByte(rest, '>'); end >= 0 {
					out.WriteString("(?:")
					i += end + 1
					continue
				}
			}
			if !strings.HasPrefix(rest, "?") {
				out.WriteString("(?:")
				continue
			}
		}
		out.WriteByte(c)
	}

	return out.String()
}

// escapeSlashes escapes every slash that is not escaped already.
func escapeSlashes(regex string) string {
	var out strings.Builder
	escaped := false
	for _, r := range regex {
		if '/' == r && !escaped {
			out.WriteByte('\\')
		}
		escaped = '\\' == r && !escaped
		out.WriteRune(r)
	}

	return out.String()
}

// splitSegments produces the readable fragments of a path, placeholders restored as written.
func splitSegments(segments []string, tokens []string) []string {
	result := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts := strings.FieldsFunc(segment, func(r rune) bool {
			return ']' == r || '<' == r || '>' == r
		})
		for _, part := range parts {
			part = strings.TrimSuffix(part, "*")
			if "" == part {
				continue
			}
			result = append(result, restore(part, tokens))
		}
	}

	return result
}
