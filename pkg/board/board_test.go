package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/nodes/math"
	"flowboard/internal/registry"
	"flowboard/internal/types"
	"flowboard/pkg/board"
	"flowboard/pkg/board/commands"
)

func newTestRegistry() *registry.GlobalNodeRegistry {
	reg := registry.New()
	reg.RegisterNodeType("math-add", math.NewAddNode)
	return reg
}

func addPin(n *board.Node, id string, dir types.PinDirection, varType types.VariableType) {
	n.Pins[id] = &types.Pin{ID: id, Name: id, Direction: dir, Type: types.TypePair{Variable: varType}}
	n.PinOrder = append(n.PinOrder, id)
}

func newAddNode(id string) *board.Node {
	n := &board.Node{ID: id, TypeID: "math-add", Pins: make(map[string]*types.Pin)}
	addPin(n, "a", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(n, "b", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(n, "result", types.PinDirectionOutput, types.VariableTypeFloat)
	return n
}

func TestBoard_AddNodeThenUndo(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	n := newAddNode("n1")

	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))
	_, ok := b.Nodes["n1"]
	assert.True(t, ok)

	require.NoError(t, b.Undo())
	_, ok = b.Nodes["n1"]
	assert.False(t, ok)

	require.NoError(t, b.Redo())
	_, ok = b.Nodes["n1"]
	assert.True(t, ok)
}

func TestBoard_UndoWithEmptyStackErrors(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	assert.Error(t, b.Undo())
}

func TestBoard_RedoWithEmptyStackErrors(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	assert.Error(t, b.Redo())
}

func TestBoard_GetPinByID(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	n := newAddNode("n1")
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))

	owner, pin, ok := b.GetPinByID("result")
	require.True(t, ok)
	assert.Equal(t, "n1", owner.ID)
	assert.Equal(t, "result", pin.ID)

	_, _, ok = b.GetPinByID("missing")
	assert.False(t, ok)
}

func TestBoard_GetVariableByIDOrName(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	b.Variables["v1"] = &types.Variable{ID: "v1", Name: "counter"}

	v, ok := b.GetVariable("v1")
	require.True(t, ok)
	assert.Equal(t, "counter", v.Name)

	v, ok = b.GetVariable("counter")
	require.True(t, ok)
	assert.Equal(t, "v1", v.ID)

	_, ok = b.GetVariable("nope")
	assert.False(t, ok)
}

func TestBoard_NodeByIDInstantiatesRuntime(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	n := newAddNode("n1")
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))

	rn, ok := b.NodeByID("n1")
	require.True(t, ok)
	require.NotNil(t, rn)

	var ids []string
	for _, p := range rn.GetInputPins() {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	_, ok = b.NodeByID("missing")
	assert.False(t, ok)
}

func TestBoard_NodeByIDUnknownTypeRecordsError(t *testing.T) {
	b := board.New("b1", "test", registry.New())
	n := newAddNode("n1")
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))

	rn, ok := b.NodeByID("n1")
	assert.True(t, ok)
	assert.Nil(t, rn)
	assert.NotEmpty(t, b.Nodes["n1"].Error)
}

func TestBoard_PinTypeOf(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	n := newAddNode("n1")
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))

	tp, ok := b.PinTypeOf("n1", "result")
	require.True(t, ok)
	assert.Equal(t, types.VariableTypeFloat, tp.Variable)

	_, ok = b.PinTypeOf("n1", "missing")
	assert.False(t, ok)
	_, ok = b.PinTypeOf("missing", "result")
	assert.False(t, ok)
}

func TestBoard_FixPinsReconcilesDependsOn(t *testing.T) {
	b := board.New("b1", "test", newTestRegistry())
	source := newAddNode("n1")
	target := newAddNode("n2")
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: source}, false))
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: target}, false))

	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{
		FromNode: "n1", FromPin: "result", ToNode: "n2", ToPin: "a",
	}, false))

	assert.Equal(t, []string{"a"}, b.Nodes["n1"].Pins["result"].ConnectedTo)
	assert.Equal(t, []string{"result"}, b.Nodes["n2"].Pins["a"].DependsOn)
}
