package logic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/nodes/logic"
	"flowboard/internal/nodetest"
	"flowboard/internal/types"
)

func TestForEachNode_IteratesEveryElement(t *testing.T) {
	n := logic.NewForEachNode()
	ctx := nodetest.New("f1", "for-each")
	ctx.Inputs["array"] = types.NewShapedValue(types.VariableTypeGeneric, types.ValueShapeArray, []interface{}{"a", "b", "c"})

	require.NoError(t, n.Execute(ctx))
	assert.Equal(t, 3, ctx.Connected["loop"])
	assert.Equal(t, 1, ctx.Connected["completed"])

	lastValue, ok := ctx.Outputs["value"]
	require.True(t, ok)
	s, err := lastValue.AsString()
	require.NoError(t, err)
	assert.Equal(t, "c", s)

	lastIndex, ok := ctx.Outputs["index"]
	require.True(t, ok)
	idx, err := lastIndex.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, float64(2), idx)
}

func TestForEachNode_EmptyArrayStillCompletes(t *testing.T) {
	n := logic.NewForEachNode()
	ctx := nodetest.New("f1", "for-each")
	ctx.Inputs["array"] = types.NewShapedValue(types.VariableTypeGeneric, types.ValueShapeArray, []interface{}{})

	require.NoError(t, n.Execute(ctx))
	assert.Equal(t, 0, ctx.Connected["loop"])
	assert.Equal(t, 1, ctx.Connected["completed"])
}

func TestForEachNode_LoopBodyReExecutesPerElement(t *testing.T) {
	// The dispatcher-level regression this guards: a loop body re-runs
	// once per element rather than being memoized away after its first
	// trigger. At this node's level that means ExecuteConnectedNodes
	// must be called once per element, not once total.
	n := logic.NewForEachNode()
	ctx := nodetest.New("f1", "for-each")
	ctx.Inputs["array"] = types.NewShapedValue(types.VariableTypeGeneric, types.ValueShapeArray, []interface{}{1.0, 2.0, 3.0, 4.0, 5.0})

	require.NoError(t, n.Execute(ctx))
	assert.Equal(t, 5, ctx.Connected["loop"])
}

func TestForEachNode_StopsOnLoopBodyError(t *testing.T) {
	n := logic.NewForEachNode()
	ctx := nodetest.New("f1", "for-each")
	ctx.Inputs["array"] = types.NewShapedValue(types.VariableTypeGeneric, types.ValueShapeArray, []interface{}{"a", "b"})
	ctx.FailConnected("loop", assertError{})

	err := n.Execute(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, ctx.Connected["completed"])
}

type assertError struct{}

func (assertError) Error() string { return "loop body failed" }
