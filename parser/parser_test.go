package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kernelError "github.com/bassbeaver/gdispatch/error"
	"github.com/bassbeaver/gdispatch/parser"
)

func TestParse_Regex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		regex string
	}{
		{"explicit pattern", `/users/{id:\d+}`, `/^\/users\/(\d+)$/`},
		{"named pattern", `/users/{id:num}`, `/^\/users\/(\d+)$/`},
		{"default pattern", `/files[/{name}]`, `/^\/files(?:\/([^\/]+))?$/`},
		{"pattern named like the parameter", `/posts/{slug}`, `/^\/posts\/([a-zA-Z0-9-]+)$/`},
		{"nested optional groups", `/a[/b[/c]]`, `/^\/a(?:\/b(?:\/c)?)?$/`},
		{"required group", `/a<-b>`, `/^\/a(?:-b)$/`},
		{"required repeatable group", `/a<-b*>`, `/^\/a(?:-b)*$/`},
		{"optional repeatable group", `/a[/b*]`, `/^\/a(?:\/b)*?$/`},
		{"brackets inside a pattern", `/tags/{tag:[a-z]+}`, `/^\/tags\/([a-z]+)$/`},
		{"braces inside a pattern", `/year/{year:\d{4}}`, `/^\/year\/(\d{4})$/`},
		{"literal metacharacters are quoted", `/v1.0/items`, `/^\/v1\.0\/items$/`},
		{"groups inside a pattern do not capture", `/lang/{lang:(en|de)}`, `/^\/lang\/((?:en|de))$/`},
		{"named groups inside a pattern do not capture", `/y/{y:(?P<year>\d+)}`, `/^\/y\/((?:\d+))$/`},
		{"escaped parenthesis stays literal", `/p/{p:\(x\)}`, `/^\/p\/(\(x\))$/`},
	}

	p := parser.NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := p.Parse(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.regex, result.Regex)
		})
	}
}

func TestParse_Params(t *testing.T) {
	t.Parallel()

	result, err := parser.NewParser().Parse(`/users/{id:\d+}/posts/{post}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "post"}, result.Names)
	assert.Equal(t, parser.Param{Token: `{id:\d+}`, Regex: `(\d+)`, Capture: true}, result.Params["id"])
	assert.Equal(t, parser.Param{Token: `{post}`, Regex: `([^/]+)`, Capture: true}, result.Params["post"])
	assert.Equal(t, []string{"id", "post"}, result.CaptureNames())
}

func TestParse_Hints(t *testing.T) {
	t.Parallel()

	p := parser.NewParser()

	t.Run("hint regex is used when the path has none", func(t *testing.T) {
		result, err := p.Parse(`/users/{id}`, parser.Hint{Name: "id", Regex: `[0-9]{3}`})
		require.NoError(t, err)
		assert.Equal(t, `/^\/users\/([0-9]{3})$/`, result.Regex)
	})

	t.Run("inline pattern wins over hint", func(t *testing.T) {
		result, err := p.Parse(`/users/{id:alpha}`, parser.Hint{Name: "id", Regex: `\d+`})
		require.NoError(t, err)
		assert.Equal(t, `/^\/users\/([a-zA-Z]+)$/`, result.Regex)
	})

	t.Run("non capturing hint", func(t *testing.T) {
		result, err := p.Parse(`/lang/{lang:en|de}/home`, parser.Hint{Name: "lang", NoCapture: true})
		require.NoError(t, err)
		assert.Equal(t, `/^\/lang\/(?:en|de)\/home$/`, result.Regex)
		assert.Empty(t, result.CaptureNames())
	})

	t.Run("custom named pattern", func(t *testing.T) {
		result, err := p.WithPattern("hex", `[0-9a-f]+`).Parse(`/c/{color:hex}`)
		require.NoError(t, err)
		assert.Equal(t, `/^\/c\/([0-9a-f]+)$/`, result.Regex)

		_, known := p.Pattern("hex")
		assert.False(t, known, "WithPattern must not change the original parser")
	})
}

func TestParse_Matching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		matches   []string
		mismatchs []string
	}{
		{`/files[/{name}]`, []string{"/files", "/files/report"}, []string{"/files/", "/files/a/b"}},
		{`/users/{id:\d+}`, []string{"/users/1", "/users/42"}, []string{"/users/", "/users/x"}},
		{`/a<-b*>`, []string{"/a", "/a-b", "/a-b-b"}, []string{"/a-c"}},
		{`/archive[/{year:num}[/{month:num}]]`, []string{"/archive", "/archive/2020", "/archive/2020/10"}, []string{"/archive//10"}},
		{`make:{what:alpha}`, []string{"make:model"}, []string{"make:", "make:1"}},
	}

	p := parser.NewParser()
	for _, tt := range tests {
		result, err := p.Parse(tt.path)
		require.NoError(t, err, tt.path)

		regex, err := parser.Compile(result.Regex)
		require.NoError(t, err)

		for _, subject := range tt.matches {
			assert.True(t, regex.MatchString(subject), "%s should match %s", tt.path, subject)
		}
		for _, subject := range tt.mismatchs {
			assert.False(t, regex.MatchString(subject), "%s should not match %s", tt.path, subject)
		}
	}
}

func TestParse_LiteralSkeletonMatches(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/", "/about", "/v1.0/items", "/a+b/(c)", "cache:clear"} {
		result, err := parser.NewParser().Parse(path)
		require.NoError(t, err, path)

		regex, err := parser.Compile(result.Regex)
		require.NoError(t, err)
		assert.True(t, regex.MatchString(path), path)
	}
}

func TestParse_Segments(t *testing.T) {
	t.Parallel()

	result, err := parser.NewParser().Parse(`/files[/{name:[a-z]+}][.<{ext}*>]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"/files", "/{name:[a-z]+}", ".", "{ext}"}, result.Segments)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, err error)
	}{
		{"unbalanced optional group", `/a[/b`, isGroupMismatch},
		{"unbalanced required group", `/a<-b`, isGroupMismatch},
		{"stray closing bracket", `/a]`, isGroupMismatch},
		{"closed before opened", `/a]/[b`, isGroupMismatch},
		{"crossed groups", `/a[<b]>`, isGroupMismatch},
		{"unclosed brace", `/a/{id`, isInvalidPath},
		{"stray closing brace", `/a/id}`, isInvalidPath},
		{"duplicate parameter", `/a/{id}/{id}`, isInvalidPath},
		{"empty parameter name", `/a/{:\d+}`, isInvalidPath},
		{"broken pattern", `/a/{id:(\d+}`, isInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := parser.NewParser().Parse(tt.path)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, kernelError.ErrConfiguration))
			tt.check(t, err)
		})
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	_, err := parser.Compile(`^/a$`)
	assert.Error(t, err)

	regex, err := parser.Compile(`/^\/a$/`)
	require.NoError(t, err)
	assert.True(t, regex.MatchString("/a"))
}

func TestIsLiteral(t *testing.T) {
	t.Parallel()

	assert.True(t, parser.IsLiteral("/users"))
	assert.True(t, parser.IsLiteral("cache:clear"))
	assert.False(t, parser.IsLiteral("/users/{id}"))
	assert.False(t, parser.IsLiteral("/files[/all]"))
	assert.False(t, parser.IsLiteral("/a<-b>"))
}

func isGroupMismatch(t *testing.T, err error) {
	var target *kernelError.GroupMismatchError
	assert.True(t, errors.As(err, &target), "expected GroupMismatchError, got %T", err)
}

func isInvalidPath(t *testing.T, err error) {
	var target *kernelError.InvalidRoutePathError
	assert.True(t, errors.As(err, &target), "expected InvalidRoutePathError, got %T", err)
}

func TestParse_OptionalParams(t *testing.T) {
	t.Parallel()

	result, err := parser.NewParser().Parse(`/a[/{b}]/{c}[/{d}[/{e}]]`)
	require.NoError(t, err)

	assert.True(t, result.Params["b"].Optional)
	assert.False(t, result.Params["c"].Optional)
	assert.True(t, result.Params["d"].Optional)
	assert.True(t, result.Params["e"].Optional)
}
