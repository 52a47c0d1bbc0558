package math_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mathnode "flowboard/internal/nodes/math"
	"flowboard/internal/nodetest"
	"flowboard/internal/types"
)

func TestAddNode(t *testing.T) {
	n := mathnode.NewAddNode()
	ctx := nodetest.New("m1", "math-add")
	ctx.Inputs["a"] = types.NewValue(types.VariableTypeFloat, 2.0)
	ctx.Inputs["b"] = types.NewValue(types.VariableTypeFloat, 3.0)

	require.NoError(t, n.Execute(ctx))
	v, ok := ctx.Outputs["result"]
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 5.0, f)
}

func TestSubtractNode(t *testing.T) {
	n := mathnode.NewSubtractNode()
	ctx := nodetest.New("m1", "math-subtract")
	ctx.Inputs["a"] = types.NewValue(types.VariableTypeFloat, 5.0)
	ctx.Inputs["b"] = types.NewValue(types.VariableTypeFloat, 3.0)

	require.NoError(t, n.Execute(ctx))
	v, ok := ctx.Outputs["result"]
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)
}

func TestMultiplyNode(t *testing.T) {
	n := mathnode.NewMultiplyNode()
	ctx := nodetest.New("m1", "math-multiply")
	ctx.Inputs["a"] = types.NewValue(types.VariableTypeFloat, 4.0)
	ctx.Inputs["b"] = types.NewValue(types.VariableTypeFloat, 2.5)

	require.NoError(t, n.Execute(ctx))
	v, ok := ctx.Outputs["result"]
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 10.0, f)
}

func TestDivideNode(t *testing.T) {
	n := mathnode.NewDivideNode()
	ctx := nodetest.New("m1", "math-divide")
	ctx.Inputs["a"] = types.NewValue(types.VariableTypeFloat, 9.0)
	ctx.Inputs["b"] = types.NewValue(types.VariableTypeFloat, 3.0)

	require.NoError(t, n.Execute(ctx))
	v, ok := ctx.Outputs["result"]
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)
}

func TestDivideNode_DivisionByZero(t *testing.T) {
	n := mathnode.NewDivideNode()
	ctx := nodetest.New("m1", "math-divide")
	ctx.Inputs["a"] = types.NewValue(types.VariableTypeFloat, 9.0)
	ctx.Inputs["b"] = types.NewValue(types.VariableTypeFloat, 0.0)

	assert.Error(t, n.Execute(ctx))
}

func TestAddNode_MissingInput(t *testing.T) {
	n := mathnode.NewAddNode()
	ctx := nodetest.New("m1", "math-add")
	ctx.Inputs["a"] = types.NewValue(types.VariableTypeFloat, 2.0)

	assert.Error(t, n.Execute(ctx))
}
