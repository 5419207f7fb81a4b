package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassbeaver/gdispatch/container"
)

type greeter struct {
	greeting string
}

func (g *greeter) Greet(name string) string {
	return g.greeting + ", " + name
}

type greetFunc func(name string) string

func newLocator() *container.Locator {
	locator := container.NewLocator()
	locator.Register(
		"greeter",
		func() *greeter {
			return &greeter{greeting: "hello"}
		},
		nil,
		true,
	)

	return locator
}

func TestLocator_Resolve(t *testing.T) {
	t.Parallel()

	locator := newLocator()
	assert.True(t, locator.Has("greeter"))
	assert.Equal(t, []string{"greeter"}, locator.Aliases())

	service, err := locator.Resolve("greeter")
	require.NoError(t, err)
	assert.Equal(t, "hello, bob", service.(*greeter).Greet("bob"))

	_, err = locator.Resolve("missing")
	assert.True(t, errors.Is(err, container.ErrServiceNotFound))
}

func TestLocator_Method(t *testing.T) {
	t.Parallel()

	locator := newLocator()

	greet, err := container.MethodAs[greetFunc](locator, "greeter:Greet")
	require.NoError(t, err)
	assert.Equal(t, "hello, ann", greet("ann"))

	_, err = locator.Method("greeter:Missing")
	assert.Error(t, err)

	_, err = locator.Method("greeter")
	assert.Error(t, err)

	_, err = container.MethodAs[func() int](locator, "greeter:Greet")
	assert.Error(t, err)
}

func TestLocator_RegisterInstance(t *testing.T) {
	t.Parallel()

	locator := container.NewLocator()
	instance := &greeter{greeting: "hi"}
	locator.RegisterInstance("greeter", instance)

	service, err := locator.Resolve("greeter")
	require.NoError(t, err)
	assert.Same(t, instance, service)
	assert.NoError(t, locator.CheckCycles())
}
