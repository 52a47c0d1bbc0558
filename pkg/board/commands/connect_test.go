package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/registry"
	"flowboard/internal/types"
	"flowboard/pkg/board"
	"flowboard/pkg/board/commands"
)

func addPin(n *board.Node, id string, dir types.PinDirection, varType types.VariableType) {
	n.Pins[id] = &types.Pin{ID: id, Name: id, Direction: dir, Type: types.TypePair{Variable: varType}}
	n.PinOrder = append(n.PinOrder, id)
}

func twoNodeBoard(t *testing.T) *board.Board {
	t.Helper()
	b := board.New("b1", "test", registry.New())

	src := &board.Node{ID: "src", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(src, "out1", types.PinDirectionOutput, types.VariableTypeFloat)

	dst := &board.Node{ID: "dst", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(dst, "in1", types.PinDirectionInput, types.VariableTypeFloat)

	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: src}, false))
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: dst}, false))
	return b
}

func TestConnectPinCommand_WiresBothSides(t *testing.T) {
	b := twoNodeBoard(t)

	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "dst", ToPin: "in1",
	}, false))

	assert.Equal(t, []string{"in1"}, b.Nodes["src"].Pins["out1"].ConnectedTo)
	assert.Equal(t, []string{"out1"}, b.Nodes["dst"].Pins["in1"].DependsOn)
}

func TestConnectPinCommand_RejectsSelfLoop(t *testing.T) {
	b := twoNodeBoard(t)
	err := b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "src", ToPin: "out1",
	}, false)
	assert.Error(t, err)
}

func TestConnectPinCommand_DataOutputFansOutToMultipleInputs(t *testing.T) {
	b := twoNodeBoard(t)
	other := &board.Node{ID: "other", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(other, "in2", types.PinDirectionInput, types.VariableTypeFloat)
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: other}, false))

	// out1 is a data (Float) output: connecting it to a second input must
	// not displace the first - data edges fan out.
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "dst", ToPin: "in1",
	}, false))
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "other", ToPin: "in2",
	}, false))

	assert.ElementsMatch(t, []string{"in1", "in2"}, b.Nodes["src"].Pins["out1"].ConnectedTo)
	assert.Equal(t, []string{"out1"}, b.Nodes["dst"].Pins["in1"].DependsOn)
	assert.Equal(t, []string{"out1"}, b.Nodes["other"].Pins["in2"].DependsOn)

	require.NoError(t, b.Undo())
	assert.Equal(t, []string{"in1"}, b.Nodes["src"].Pins["out1"].ConnectedTo)
	assert.Equal(t, []string{"out1"}, b.Nodes["dst"].Pins["in1"].DependsOn)
	assert.Empty(t, b.Nodes["other"].Pins["in2"].DependsOn)
}

func TestConnectPinCommand_ExecOutputDisplacesPriorTargetOnUndo(t *testing.T) {
	b := board.New("b1", "test", registry.New())

	src := &board.Node{ID: "src", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(src, "out1", types.PinDirectionOutput, types.VariableTypeExecution)
	dst := &board.Node{ID: "dst", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(dst, "in1", types.PinDirectionInput, types.VariableTypeExecution)
	other := &board.Node{ID: "other", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(other, "in2", types.PinDirectionInput, types.VariableTypeExecution)
	for _, n := range []*board.Node{src, dst, other} {
		require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))
	}

	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "dst", ToPin: "in1",
	}, false))
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "other", ToPin: "in2",
	}, false))

	assert.Equal(t, []string{"out1"}, b.Nodes["other"].Pins["in2"].DependsOn)
	assert.Empty(t, b.Nodes["dst"].Pins["in1"].DependsOn)

	require.NoError(t, b.Undo())
	assert.Equal(t, []string{"in1"}, b.Nodes["src"].Pins["out1"].ConnectedTo)
	assert.Equal(t, []string{"out1"}, b.Nodes["dst"].Pins["in1"].DependsOn)
	assert.Empty(t, b.Nodes["other"].Pins["in2"].DependsOn)
}

func TestConnectPinCommand_DataInputReconnectClearsOldSourceOnUndoRestoresIt(t *testing.T) {
	b := board.New("b1", "test", registry.New())

	a := &board.Node{ID: "a", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(a, "aout", types.PinDirectionOutput, types.VariableTypeFloat)
	bn := &board.Node{ID: "b", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(bn, "bout", types.PinDirectionOutput, types.VariableTypeFloat)
	dst := &board.Node{ID: "dst", TypeID: "x", Pins: make(map[string]*types.Pin)}
	addPin(dst, "in", types.PinDirectionInput, types.VariableTypeFloat)
	for _, n := range []*board.Node{a, bn, dst} {
		require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))
	}

	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "a", FromPin: "aout", ToNode: "dst", ToPin: "in",
	}, false))
	// Reconnecting dst.in to a different data source must displace a's
	// edge, not merely add b's - an input has at most one incoming edge.
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "b", FromPin: "bout", ToNode: "dst", ToPin: "in",
	}, false))

	assert.Equal(t, []string{"bout"}, b.Nodes["dst"].Pins["in"].DependsOn)
	assert.Empty(t, b.Nodes["a"].Pins["aout"].ConnectedTo)
	assert.Equal(t, []string{"in"}, b.Nodes["b"].Pins["bout"].ConnectedTo)

	require.NoError(t, b.Undo())
	assert.Equal(t, []string{"aout"}, b.Nodes["dst"].Pins["in"].DependsOn)
	assert.Equal(t, []string{"in"}, b.Nodes["a"].Pins["aout"].ConnectedTo)
	assert.Empty(t, b.Nodes["b"].Pins["bout"].ConnectedTo)
}

func TestDisconnectPinCommand_RemovesEdgeAndUndoRestoresIt(t *testing.T) {
	b := twoNodeBoard(t)
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "dst", ToPin: "in1",
	}, false))

	require.NoError(t, b.ExecuteCommand(&commands.DisconnectPinCommand{
		FromNode: "src", FromPin: "out1", ToNode: "dst", ToPin: "in1",
	}, false))
	assert.Empty(t, b.Nodes["src"].Pins["out1"].ConnectedTo)
	assert.Empty(t, b.Nodes["dst"].Pins["in1"].DependsOn)

	require.NoError(t, b.Undo())
	assert.Equal(t, []string{"in1"}, b.Nodes["src"].Pins["out1"].ConnectedTo)
	assert.Equal(t, []string{"out1"}, b.Nodes["dst"].Pins["in1"].DependsOn)
}
