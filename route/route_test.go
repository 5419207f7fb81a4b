package route_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassbeaver/gdispatch/route"
)

type entityResolverMock struct {
	entities map[string]interface{}
	err      error
}

func (m *entityResolverMock) Resolve(_ context.Context, entity, column, value string) (interface{}, error) {
	if nil != m.err {
		return nil, m.err
	}
	found, exists := m.entities[entity+"."+column+"="+value]
	if !exists {
		return nil, fmt.Errorf("%s %s=%s: %w", entity, column, value, route.ErrEntityNotFound)
	}

	return found, nil
}

type locatorMock map[string]interface{}

func (m locatorMock) Resolve(alias string) (interface{}, error) {
	service, exists := m[alias]
	if !exists {
		return nil, fmt.Errorf("service %s is not registered", alias)
	}

	return service, nil
}

func TestRoute_WithIsCopyOnWrite(t *testing.T) {
	t.Parallel()

	original := route.New(route.Definition{
		Name:       "users.show",
		Path:       "/users/{id}",
		Methods:    []string{"GET"},
		Parameters: []route.Parameter{{Name: "id"}},
		Middleware: map[string][]string{"route_matched": {"auth:Check"}},
	})

	changed := original.
		WithName("users.view").
		WithPath("/u/{id}").
		WithMethods("get", "head").
		WithRegex(`/^\/u\/([^\/]+)$/`).
		WithParameter(route.Parameter{Name: "id", Regex: `\d+`}).
		WithMiddleware("route_matched", "csrf:Check")

	assert.Equal(t, "users.show", original.Name())
	assert.Equal(t, "/users/{id}", original.Path())
	assert.Equal(t, []string{"GET"}, original.Methods())
	assert.False(t, original.IsDynamic())
	assert.Equal(t, []route.Parameter{{Name: "id"}}, original.Parameters())
	assert.Equal(t, []string{"auth:Check"}, original.Middleware("route_matched"))

	assert.Equal(t, "users.view", changed.Name())
	assert.Equal(t, []string{"GET", "HEAD"}, changed.Methods())
	assert.True(t, changed.IsDynamic())
	assert.True(t, changed.HasMethod("head"))
	assert.Equal(t, []string{"auth:Check", "csrf:Check"}, changed.Middleware("route_matched"))

	parameter, found := changed.Parameter("id")
	require.True(t, found)
	assert.Equal(t, `\d+`, parameter.Regex)
}

func TestRoute_GettersReturnCopies(t *testing.T) {
	t.Parallel()

	r := route.New(route.Definition{
		Name:    "a",
		Path:    "/a",
		Methods: []string{"GET"},
		Dispatch: route.Dispatch{
			Controller:   "ctrl:Index",
			Dependencies: []route.Dependency{{Name: "db", Service: "database"}},
		},
	})

	methods := r.Methods()
	methods[0] = "POST"
	dispatch := r.Dispatch()
	dispatch.Dependencies[0].Service = "other"

	assert.Equal(t, []string{"GET"}, r.Methods())
	assert.Equal(t, "database", r.Dispatch().Dependencies[0].Service)
}

func TestRoute_CaptureNames(t *testing.T) {
	t.Parallel()

	r := route.New(route.Definition{
		Parameters: []route.Parameter{{Name: "lang", NoCapture: true}, {Name: "id"}, {Name: "page"}},
	})

	assert.Equal(t, []string{"id", "page"}, r.CaptureNames())
}

func TestDispatch_WithoutDependency(t *testing.T) {
	t.Parallel()

	dispatch := route.Dispatch{
		Controller:   "ctrl:Show",
		Dependencies: []route.Dependency{{Name: "user", Service: "user"}, {Name: "log", Service: "logger"}},
	}

	pruned := dispatch.WithoutDependency("user")
	assert.Equal(t, []route.Dependency{{Name: "log", Service: "logger"}}, pruned.Dependencies)
	assert.Len(t, dispatch.Dependencies, 2)

	assert.Nil(t, pruned.WithoutDependency("logger").Dependencies)
}

func TestCast_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cast     route.CastType
		raw      string
		expected interface{}
		fails    bool
	}{
		{"", "abc", "abc", false},
		{route.CastString, "abc", "abc", false},
		{route.CastInt, "42", 42, false},
		{route.CastInt, "-7", -7, false},
		{route.CastInt, "4x", nil, true},
		{route.CastInt, "", nil, true},
		{route.CastFloat, "1.5", 1.5, false},
		{route.CastFloat, "1.5.2", nil, true},
		{route.CastBool, "true", true, false},
		{route.CastBool, "0", false, false},
		{route.CastBool, "maybe", nil, true},
		{"decimal", "1", nil, true},
	}

	for _, tt := range tests {
		value, err := route.Cast{Type: tt.cast}.Apply(tt.raw)
		if tt.fails {
			assert.Error(t, err, "%s(%s)", tt.cast, tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, value)
	}
}

func TestCast_LookupColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id", route.Cast{Type: route.CastEntity}.LookupColumn())
	assert.Equal(t, "slug", route.Cast{Type: route.CastEntity, Column: "slug"}.LookupColumn())
}

func TestRoute_Bind(t *testing.T) {
	t.Parallel()

	resolver := &entityResolverMock{entities: map[string]interface{}{"users.id=7": "user #7"}}
	locator := locatorMock{"mailer": "mailer service"}

	r := route.New(route.Definition{
		Path: "/users/{user}[/{page}]",
		Parameters: []route.Parameter{
			{Name: "user", Cast: route.Cast{Type: route.CastEntity, Entity: "users"}},
			{Name: "page", Optional: true, Default: "1", Cast: route.Cast{Type: route.CastInt}},
		},
		Dispatch: route.Dispatch{Dependencies: []route.Dependency{{Name: "mail", Service: "mailer"}}},
	})

	t.Run("parameters then dependencies", func(t *testing.T) {
		arguments, err := r.Bind(context.Background(), map[string]string{"user": "7"}, resolver, locator)
		require.NoError(t, err)

		assert.Equal(t, []string{"user", "page", "mail"}, arguments.Names())
		user, _ := arguments.Get("user")
		assert.Equal(t, "user #7", user)
		page, isInt := route.Arg[int](arguments, "page")
		assert.True(t, isInt)
		assert.Equal(t, 1, page)
		assert.Equal(t, "mailer service", arguments.String("mail"))
	})

	t.Run("entity not found", func(t *testing.T) {
		_, err := r.Bind(context.Background(), map[string]string{"user": "8"}, resolver, locator)
		require.Error(t, err)

		var castError *route.CastError
		require.True(t, errors.As(err, &castError))
		assert.Equal(t, "user", castError.Parameter)
		assert.True(t, errors.Is(err, route.ErrEntityNotFound))
	})

	t.Run("captured empty value is not replaced by the default", func(t *testing.T) {
		_, err := r.Bind(context.Background(), map[string]string{"user": "7", "page": ""}, resolver, locator)

		var castError *route.CastError
		require.True(t, errors.As(err, &castError))
		assert.Equal(t, "page", castError.Parameter)
	})

	t.Run("resolver failure is not a cast error", func(t *testing.T) {
		broken := &entityResolverMock{err: errors.New("connection refused")}
		_, err := r.Bind(context.Background(), map[string]string{"user": "7"}, broken, locator)
		require.Error(t, err)

		var castError *route.CastError
		assert.False(t, errors.As(err, &castError))
		assert.False(t, errors.Is(err, route.ErrEntityNotFound))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("no resolver is not a cast error", func(t *testing.T) {
		_, err := r.Bind(context.Background(), map[string]string{"user": "7"}, nil, locator)
		require.Error(t, err)

		var castError *route.CastError
		assert.False(t, errors.As(err, &castError))
	})

	t.Run("missing required value", func(t *testing.T) {
		_, err := r.Bind(context.Background(), map[string]string{}, resolver, locator)
		assert.Error(t, err)
	})

	t.Run("missing dependency", func(t *testing.T) {
		_, err := r.Bind(context.Background(), map[string]string{"user": "7"}, resolver, locatorMock{})
		assert.Error(t, err)
	})
}

func TestRoute_BindRequiredEmptyCapture(t *testing.T) {
	t.Parallel()

	r := route.New(route.Definition{
		Path:       "/files/{rest:any}",
		Parameters: []route.Parameter{{Name: "rest", Regex: "any"}},
	})

	arguments, err := r.Bind(context.Background(), map[string]string{"rest": ""}, nil, nil)
	require.NoError(t, err)

	rest, isString := route.Arg[string](arguments, "rest")
	assert.True(t, isString)
	assert.Equal(t, "", rest)
}

func TestRoute_BindOptionalWithoutDefault(t *testing.T) {
	t.Parallel()

	r := route.New(route.Definition{Parameters: []route.Parameter{{Name: "name", Optional: true}}})

	arguments, err := r.Bind(context.Background(), map[string]string{}, nil, nil)
	require.NoError(t, err)

	value, exists := arguments.Get("name")
	assert.True(t, exists)
	assert.Nil(t, value)
	assert.Equal(t, "", arguments.String("name"))
}

func TestArg_WrongType(t *testing.T) {
	t.Parallel()

	arguments := route.NewArguments()
	arguments.Set("id", "42")
	arguments.Set("id", 42)

	_, isString := route.Arg[string](arguments, "id")
	assert.False(t, isString)
	id, isInt := route.Arg[int](arguments, "id")
	assert.True(t, isInt)
	assert.Equal(t, 42, id)
	assert.Equal(t, 1, arguments.Len())

	_, exists := route.Arg[int](arguments, "missing")
	assert.False(t, exists)
}
