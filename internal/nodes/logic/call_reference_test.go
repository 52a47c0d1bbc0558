package logic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/node"
	"flowboard/internal/nodes/logic"
	"flowboard/internal/nodes/math"
	"flowboard/internal/nodetest"
	"flowboard/internal/types"
)

// fakeBoardView implements node.BoardView with a single fixed target node,
// enough for exercising CallReferenceNode.OnUpdate without a real board.
type fakeBoardView struct {
	target node.Node
}

func (f fakeBoardView) NodeByID(id string) (node.Node, bool) {
	if id == "target" {
		return f.target, true
	}
	return nil, false
}

func (f fakeBoardView) PinTypeOf(string, string) (types.TypePair, bool) {
	return types.TypePair{}, false
}

func TestCallReferenceNode_OnUpdateMirrorsTargetPins(t *testing.T) {
	target := math.NewAddNode()

	n := logic.NewCallReferenceNode()
	n.SetProperty("targetNodeId", "target")

	updatable := n.(node.Updatable)
	require.NoError(t, updatable.OnUpdate(n, fakeBoardView{target: target}))

	var inputIDs, outputIDs []string
	for _, p := range n.GetInputPins() {
		inputIDs = append(inputIDs, p.ID)
	}
	for _, p := range n.GetOutputPins() {
		outputIDs = append(outputIDs, p.ID)
	}
	assert.ElementsMatch(t, []string{"exec", "ref_in_a", "ref_in_b"}, inputIDs)
	assert.ElementsMatch(t, []string{"then", "ref_out_result"}, outputIDs)
}

func TestCallReferenceNode_ExecuteForwardsAndCopiesBack(t *testing.T) {
	target := math.NewAddNode()
	n := logic.NewCallReferenceNode()
	n.SetProperty("targetNodeId", "target")
	require.NoError(t, n.(node.Updatable).OnUpdate(n, fakeBoardView{target: target}))

	ctx := nodetest.New("call1", "call-reference")
	ctx.Inputs["ref_in_a"] = types.NewValue(types.VariableTypeFloat, 2.0)
	ctx.Inputs["ref_in_b"] = types.NewValue(types.VariableTypeFloat, 3.0)

	var forwarded map[string]types.Value
	caller := ctx.WithCallReference(func(targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error) {
		assert.Equal(t, "target", targetNodeID)
		forwarded = inputs
		return map[string]types.Value{"result": types.NewValue(types.VariableTypeFloat, 5.0)}, nil
	})

	require.NoError(t, n.Execute(caller))
	assert.Equal(t, 2.0, forwarded["a"].Raw)
	assert.Equal(t, 3.0, forwarded["b"].Raw)

	out, ok := ctx.Outputs["ref_out_result"]
	require.True(t, ok)
	v, _ := out.AsNumber()
	assert.Equal(t, 5.0, v)
	assert.Equal(t, []string{"then"}, ctx.Activated)
}

func TestCallReferenceNode_ExecuteWithoutCallerSupport(t *testing.T) {
	n := logic.NewCallReferenceNode()
	n.SetProperty("targetNodeId", "target")
	ctx := nodetest.New("call1", "call-reference")

	err := n.Execute(ctx)
	assert.Error(t, err)
}

func TestCallReferenceNode_NoTargetConfigured(t *testing.T) {
	n := logic.NewCallReferenceNode()
	ctx := nodetest.New("call1", "call-reference")
	caller := ctx.WithCallReference(func(string, map[string]types.Value) (map[string]types.Value, error) {
		t.Fatal("should not be called without a target")
		return nil, nil
	})

	assert.Error(t, n.Execute(caller))
}
