package logic_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/node"
	"flowboard/internal/nodes/logic"
	"flowboard/internal/nodetest"
)

func TestSequenceNode_DefaultTwoSteps(t *testing.T) {
	n := logic.NewSequenceNode()
	ctx := nodetest.New("seq1", "sequence")

	require.NoError(t, n.Execute(ctx))
	assert.Equal(t, 1, ctx.Connected["exec_1"])
	assert.Equal(t, 1, ctx.Connected["exec_2"])
	assert.Equal(t, 1, ctx.Connected["completed"])
}

func TestSequenceNode_OnUpdateResizesSteps(t *testing.T) {
	n := logic.NewSequenceNode()
	n.SetProperty("steps", 4)

	updatable, ok := n.(node.Updatable)
	require.True(t, ok, "sequence node must implement Updatable")
	require.NoError(t, updatable.OnUpdate(n, nil))

	outputs := n.GetOutputPins()
	ids := make([]string, 0, len(outputs))
	for _, p := range outputs {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"exec_1", "exec_2", "exec_3", "exec_4", "completed"}, ids)

	ctx := nodetest.New("seq1", "sequence")
	require.NoError(t, n.Execute(ctx))
	for _, id := range []string{"exec_1", "exec_2", "exec_3", "exec_4"} {
		assert.Equal(t, 1, ctx.Connected[id])
	}
}

func TestSequenceNode_StopsOnStepError(t *testing.T) {
	n := logic.NewSequenceNode()
	ctx := nodetest.New("seq1", "sequence")
	ctx.FailConnected("exec_1", errors.New("boom"))

	err := n.Execute(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, ctx.Connected["exec_2"])
	assert.Equal(t, 0, ctx.Connected["completed"])
}
