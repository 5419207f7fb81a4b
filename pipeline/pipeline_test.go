package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bassbeaver/gdispatch/pipeline"
)

type trace struct {
	steps []string
}

func recording(name string) pipeline.MiddlewareFunc[*trace, string] {
	return func(ctx *trace, next pipeline.Handler[*trace, string]) string {
		ctx.steps = append(ctx.steps, name)

		return next.Handle(ctx)
	}
}

func answering(value string) pipeline.MiddlewareFunc[*trace, string] {
	return func(ctx *trace, _ pipeline.Handler[*trace, string]) string {
		ctx.steps = append(ctx.steps, "answer:"+value)

		return value
	}
}

var terminal = pipeline.HandlerFunc[*trace, string](func(ctx *trace) string {
	ctx.steps = append(ctx.steps, "terminal")

	return "terminal"
})

func TestChain_RunsInOrder(t *testing.T) {
	t.Parallel()

	ctx := &trace{}
	outcome := pipeline.NewChain[*trace, string](recording("a"), recording("b")).Run(ctx, terminal)

	assert.Equal(t, "terminal", outcome.Value)
	assert.Equal(t, pipeline.StateTerminal, outcome.State)
	assert.True(t, outcome.ReachedTerminal())
	assert.Equal(t, []string{"a", "b", "terminal"}, ctx.steps)
}

func TestChain_ShortCircuit(t *testing.T) {
	t.Parallel()

	ctx := &trace{}
	chain := pipeline.NewChain[*trace, string](recording("a"), answering("early"), recording("c"))
	outcome := chain.Run(ctx, terminal)

	assert.Equal(t, "early", outcome.Value)
	assert.Equal(t, 1, outcome.ShortCircuitedAt)
	assert.False(t, outcome.ReachedTerminal())
	assert.Equal(t, []string{"a", "answer:early"}, ctx.steps)
}

func TestChain_EmptyChainCallsTerminal(t *testing.T) {
	t.Parallel()

	ctx := &trace{}
	assert.Equal(t, "terminal", pipeline.NewChain[*trace, string]().Handle(ctx, terminal))
	assert.Equal(t, []string{"terminal"}, ctx.steps)
}

func TestChain_NilTerminal(t *testing.T) {
	t.Parallel()

	outcome := pipeline.NewChain[*trace, string](recording("a")).Run(&trace{}, nil)
	assert.Equal(t, "", outcome.Value)
	assert.True(t, outcome.ReachedTerminal())
}

func TestChain_MergeKeepsGlobalFirst(t *testing.T) {
	t.Parallel()

	global := pipeline.NewChain[*trace, string](recording("global"))
	specific := pipeline.NewChain[*trace, string](recording("route"))
	merged := global.Merge(specific)

	assert.Equal(t, 1, global.Len())
	assert.Equal(t, 2, merged.Len())
	assert.Equal(t, 2, global.Merge(nil).Append(recording("x")).Len())

	ctx := &trace{}
	merged.Handle(ctx, terminal)
	assert.Equal(t, []string{"global", "route", "terminal"}, ctx.steps)
}

func TestChain_IsDeterministic(t *testing.T) {
	t.Parallel()

	chain := pipeline.NewChain[*trace, string](recording("a"), recording("b"))
	first, second := &trace{}, &trace{}
	chain.Handle(first, terminal)
	chain.Handle(second, terminal)

	assert.Equal(t, first.steps, second.steps)
}

func TestChain_SkipsNilMiddleware(t *testing.T) {
	t.Parallel()

	chain := pipeline.NewChain[*trace, string](nil, recording("a"))
	assert.Equal(t, 1, chain.Len())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", pipeline.StatePending.String())
	assert.Equal(t, "delegating", pipeline.StateDelegating.String())
	assert.Equal(t, "terminal", pipeline.StateTerminal.String())
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	chain, err := pipeline.Assemble[*trace, string](recording("a"), nil, answering("b"))
	if assert.NoError(t, err) {
		assert.Equal(t, 2, chain.Len())
		ctx := &trace{}
		assert.Equal(t, "b", chain.Handle(ctx, terminal))
		assert.Equal(t, []string{"a", "answer:b"}, ctx.steps)
	}

	_, err = pipeline.Assemble[*trace, string]("not middleware")
	assert.Error(t, err)
}
