package data_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/nodes/data"
	"flowboard/internal/nodetest"
	"flowboard/internal/types"
)

func TestVariableGetNode_ReadsConfiguredVariable(t *testing.T) {
	n := data.NewVariableGetNode()
	n.SetProperty("name", "counter")

	ctx := nodetest.New("g1", "variable-get")
	ctx.Vars["counter"] = types.NewValue(types.VariableTypeFloat, 7.0)

	require.NoError(t, n.Execute(ctx))
	v, ok := ctx.Outputs["value"]
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)
}

func TestVariableGetNode_MissingName(t *testing.T) {
	n := data.NewVariableGetNode()
	ctx := nodetest.New("g1", "variable-get")

	assert.Error(t, n.Execute(ctx))
}

func TestVariableGetNode_UnknownVariable(t *testing.T) {
	n := data.NewVariableGetNode()
	n.SetProperty("name", "missing")
	ctx := nodetest.New("g1", "variable-get")

	assert.Error(t, n.Execute(ctx))
}

func TestVariableSetNode_WritesAndActivatesThen(t *testing.T) {
	n := data.NewVariableSetNode()
	n.SetProperty("name", "counter")

	ctx := nodetest.New("s1", "variable-set")
	ctx.Inputs["value"] = types.NewValue(types.VariableTypeFloat, 3.0)

	require.NoError(t, n.Execute(ctx))
	v, ok := ctx.Vars["counter"]
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)
	assert.Equal(t, []string{"then"}, ctx.Activated)
}

func TestVariableSetNode_MissingName(t *testing.T) {
	n := data.NewVariableSetNode()
	ctx := nodetest.New("s1", "variable-set")
	ctx.Inputs["value"] = types.NewValue(types.VariableTypeFloat, 3.0)

	assert.Error(t, n.Execute(ctx))
}

func TestVariableSetNode_MissingValue(t *testing.T) {
	n := data.NewVariableSetNode()
	n.SetProperty("name", "counter")
	ctx := nodetest.New("s1", "variable-set")

	assert.Error(t, n.Execute(ctx))
}
