package engine_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/cache"
	"flowboard/internal/core"
	"flowboard/internal/engine"
	"flowboard/internal/node"
	"flowboard/internal/nodes/data"
	"flowboard/internal/nodes/logic"
	"flowboard/internal/nodes/math"
	"flowboard/internal/obslog"
	"flowboard/internal/registry"
	"flowboard/internal/types"
	"flowboard/pkg/board"
	"flowboard/pkg/board/commands"
)

func addPin(n *board.Node, id string, dir types.PinDirection, varType types.VariableType) {
	n.Pins[id] = &types.Pin{ID: id, Name: id, Direction: dir, Type: types.TypePair{Variable: varType}}
	n.PinOrder = append(n.PinOrder, id)
}

// setDefault overrides a pin's default-value blob, the board-level knob a
// constant node's Execute actually reads (the factory's own built-in
// default is fixed and not otherwise per-instance configurable).
func setDefault(t *testing.T, n *board.Node, pinID string, value interface{}) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	n.Pins[pinID].DefaultValue = data
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newLogger() *obslog.Logger { return obslog.New(discardWriter{}, zerolog.Disabled, "test") }

// buildChain wires constant-number(5) -> variable-set("total") through a
// math-add(5,2) so Trigger must pull-resolve the add before the setter runs.
func buildChain(t *testing.T) *board.Board {
	t.Helper()
	reg := registry.New()
	reg.RegisterNodeType("constant-number", data.NewNumberConstantNode)
	reg.RegisterNodeType("math-add", math.NewAddNode)
	reg.RegisterNodeType("variable-set", data.NewVariableSetNode)

	b := board.New("b1", "chain", reg)

	five := &board.Node{ID: "five", TypeID: "constant-number", Pins: make(map[string]*types.Pin)}
	addPin(five, "value", types.PinDirectionOutput, types.VariableTypeFloat)
	setDefault(t, five, "value", 5.0)

	two := &board.Node{ID: "two", TypeID: "constant-number", Pins: make(map[string]*types.Pin)}
	addPin(two, "value", types.PinDirectionOutput, types.VariableTypeFloat)
	setDefault(t, two, "value", 2.0)

	adder := &board.Node{ID: "adder", TypeID: "math-add", Pins: make(map[string]*types.Pin)}
	addPin(adder, "a", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(adder, "b", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(adder, "result", types.PinDirectionOutput, types.VariableTypeFloat)

	setter := &board.Node{ID: "setter", TypeID: "variable-set", Pins: make(map[string]*types.Pin)}
	addPin(setter, "exec", types.PinDirectionInput, types.VariableTypeExecution)
	addPin(setter, "value", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(setter, "then", types.PinDirectionOutput, types.VariableTypeExecution)

	for _, n := range []*board.Node{five, two, adder, setter} {
		require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: n}, false))
	}
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{FromNode: "five", FromPin: "value", ToNode: "adder", ToPin: "a"}, false))
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{FromNode: "two", FromPin: "value", ToNode: "adder", ToPin: "b"}, false))
	require.NoError(t, b.ExecuteCommand(&commands.ConnectPinCommand{FromNode: "adder", FromPin: "result", ToNode: "setter", ToPin: "value"}, false))

	setterRuntime, _, err := b.RuntimeNode("setter")
	require.NoError(t, err)
	setterRuntime.SetProperty("name", "total")

	b.Variables["total"] = &types.Variable{ID: "total", Name: "total", Type: types.TypePair{Variable: types.VariableTypeFloat}}
	return b
}

func TestDispatcher_TriggerPullResolvesUpstream(t *testing.T) {
	b := buildChain(t)
	d := engine.NewDispatcher(b, "run1", core.MapAppState{}, &core.Profile{ID: "p1"}, cache.New(), nil, newLogger(), nil)

	require.NoError(t, d.Trigger(context.Background(), "setter", false))

	v, ok := b.Variables["total"].Slot().Get()
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)
}

func TestDispatcher_TriggerUnknownNodeErrors(t *testing.T) {
	b := buildChain(t)
	d := engine.NewDispatcher(b, "run1", core.MapAppState{}, &core.Profile{ID: "p1"}, cache.New(), nil, newLogger(), nil)

	err := d.Trigger(context.Background(), "missing", false)
	assert.Error(t, err)
}

func TestDispatcher_TraceRecordsEachNode(t *testing.T) {
	b := buildChain(t)
	d := engine.NewDispatcher(b, "run1", core.MapAppState{}, &core.Profile{ID: "p1"}, cache.New(), nil, newLogger(), nil)

	require.NoError(t, d.Trigger(context.Background(), "setter", false))

	var ids []string
	var walk func(n *engine.TraceNode)
	walk = func(n *engine.TraceNode) {
		ids = append(ids, n.NodeID)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.Trace())
	assert.Contains(t, ids, "setter")
	assert.Contains(t, ids, "adder")
}

func TestDispatcher_CanceledContextStopsTrigger(t *testing.T) {
	b := buildChain(t)
	cancel := make(chan struct{})
	close(cancel)
	d := engine.NewDispatcher(b, "run1", core.MapAppState{}, &core.Profile{ID: "p1"}, cache.New(), nil, newLogger(), cancel)

	err := d.Trigger(context.Background(), "setter", false)
	assert.Error(t, err)
}

func TestDispatcher_CallReferenceDelegatesExecution(t *testing.T) {
	reg := registry.New()
	reg.RegisterNodeType("math-add", math.NewAddNode)
	reg.RegisterNodeType("call-reference", logic.NewCallReferenceNode)

	b := board.New("b1", "delegate", reg)

	target := &board.Node{ID: "target", TypeID: "math-add", Pins: make(map[string]*types.Pin)}
	addPin(target, "a", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(target, "b", types.PinDirectionInput, types.VariableTypeFloat)
	addPin(target, "result", types.PinDirectionOutput, types.VariableTypeFloat)

	caller := &board.Node{ID: "caller", TypeID: "call-reference", Pins: make(map[string]*types.Pin)}
	addPin(caller, "exec", types.PinDirectionInput, types.VariableTypeExecution)
	addPin(caller, "then", types.PinDirectionOutput, types.VariableTypeExecution)

	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: target}, false))
	require.NoError(t, b.ExecuteCommand(&commands.AddNodeCommand{Node: caller}, false))

	callerRuntime, _, err := b.RuntimeNode("caller")
	require.NoError(t, err)
	callerRuntime.SetProperty("targetNodeId", "target")

	updatable, ok := callerRuntime.(node.Updatable)
	require.True(t, ok)
	require.NoError(t, updatable.OnUpdate(callerRuntime, b))
	b.SyncNodePins("caller")

	b.Nodes["caller"].Pins["ref_in_a"].Slot().Set(types.NewValue(types.VariableTypeFloat, 4.0))
	b.Nodes["caller"].Pins["ref_in_b"].Slot().Set(types.NewValue(types.VariableTypeFloat, 6.0))

	d := engine.NewDispatcher(b, "run1", core.MapAppState{}, &core.Profile{ID: "p1"}, cache.New(), nil, newLogger(), nil)
	require.NoError(t, d.Trigger(context.Background(), "caller", false))

	v, ok := b.Nodes["caller"].Pins["ref_out_result"].Slot().Get()
	require.True(t, ok)
	f, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 10.0, f)

	var delegated bool
	var walk func(n *engine.TraceNode)
	walk = func(n *engine.TraceNode) {
		if n.NodeID == "target" && n.Delegated {
			delegated = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.Trace())
	assert.True(t, delegated, "target should appear as a delegated trace child")
}
