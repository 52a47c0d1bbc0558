// Package engine implements the execution context and dispatcher that walk
// a board: pulling data-pin dependencies on demand and pushing activated
// execution pins onward in declaration order.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flowboard/internal/bperrors"
	"flowboard/internal/cache"
	"flowboard/internal/core"
	"flowboard/internal/event"
	"flowboard/internal/node"
	"flowboard/internal/types"
	"flowboard/pkg/board"
)

// ExecutionContext is the per-node view of a run the dispatcher hands to a
// node's Execute. It reads/writes pin slots directly on the board the
// dispatcher was given; run.Manager passes the caller's board as is, not a
// copy, so a concurrent mutation of that board is visible to the run. It
// calls back into the owning Dispatcher
// for ExecuteConnectedNodes, the synchronous push-dispatch control nodes
// like Sequence and For-Each need mid-body.
type ExecutionContext struct {
	dispatcher *Dispatcher
	boardNode  *board.Node
	ctx        context.Context

	mu                 sync.Mutex
	activatedOutputs   []string
	deactivatedOutputs []string
	debugData          map[string]interface{}
	saved              map[string]interface{}
}

var _ node.ExtendedExecutionContext = (*ExecutionContext)(nil)

func newExecutionContext(ctx context.Context, d *Dispatcher, bn *board.Node) *ExecutionContext {
	return &ExecutionContext{
		dispatcher: d,
		boardNode:  bn,
		ctx:        ctx,
		debugData:  make(map[string]interface{}),
		saved:      make(map[string]interface{}),
	}
}

// GetInputValue pulls an input pin's value, recursively resolving and
// executing its upstream producer if the pin hasn't been written yet.
func (c *ExecutionContext) GetInputValue(pinID string) (types.Value, bool) {
	pin, ok := c.boardNode.Pins[pinID]
	if !ok {
		return types.Value{}, false
	}
	if v, set := pin.Slot().Get(); set {
		return v, true
	}
	for _, sourcePinID := range pin.DependsOn {
		srcNode, srcPin, ok := c.dispatcher.b.GetPinByID(sourcePinID)
		if !ok {
			continue
		}
		if err := c.dispatcher.resolve(c.ctx, srcNode.ID); err != nil {
			c.dispatcher.logger.Error("resolve upstream node failed", map[string]interface{}{
				"node": srcNode.ID, "error": err.Error(),
			})
			continue
		}
		if v, set := srcPin.Slot().Get(); set {
			return v, true
		}
	}
	v, err := pin.DefaultAsValue()
	if err != nil {
		return types.Value{}, false
	}
	return v, true
}

// SetOutputValue writes a value to an output pin's runtime slot.
func (c *ExecutionContext) SetOutputValue(pinID string, value types.Value) {
	if pin, ok := c.boardNode.Pins[pinID]; ok {
		_ = pin.Write(value)
	}
}

// SetInput forces an input pin's slot directly, used by Call-Reference to
// seed a callee's inputs without going through a real board edge.
func (c *ExecutionContext) SetInput(pinID string, value types.Value) {
	if pin, ok := c.boardNode.Pins[pinID]; ok {
		pin.Slot().Set(value)
	}
}

// GetOutputValue reads back a value this node already wrote.
func (c *ExecutionContext) GetOutputValue(pinID string) (types.Value, bool) {
	pin, ok := c.boardNode.Pins[pinID]
	if !ok {
		return types.Value{}, false
	}
	return pin.Slot().Get()
}

// GetAllOutputs snapshots every output pin's current value.
func (c *ExecutionContext) GetAllOutputs() map[string]types.Value {
	out := make(map[string]types.Value)
	for id, pin := range c.boardNode.Pins {
		if pin.Direction != types.PinDirectionOutput {
			continue
		}
		if v, set := pin.Slot().Get(); set {
			out[id] = v
		}
	}
	return out
}

// IsInputPinActive reports whether an exec input pin was activated this
// dispatch pass.
func (c *ExecutionContext) IsInputPinActive(pinID string) bool {
	return c.dispatcher.wasActivated(c.boardNode.ID, pinID)
}

// ActivateOutputFlow marks an exec output pin to fire on push-dispatch.
func (c *ExecutionContext) ActivateOutputFlow(pinID string) error {
	if _, ok := c.boardNode.Pins[pinID]; !ok {
		return fmt.Errorf("pin %s not found on node %s", pinID, c.boardNode.ID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activatedOutputs = append(c.activatedOutputs, pinID)
	return nil
}

// DeactivateOutputFlow marks an exec output pin to explicitly not fire,
// used by branch-style nodes that activate exactly one of several
// mutually exclusive outputs.
func (c *ExecutionContext) DeactivateOutputFlow(pinID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deactivatedOutputs = append(c.deactivatedOutputs, pinID)
	return nil
}

func (c *ExecutionContext) GetActivatedOutputFlows() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.activatedOutputs))
	copy(out, c.activatedOutputs)
	return out
}

func (c *ExecutionContext) GetDeactivatedOutputFlows() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.deactivatedOutputs))
	copy(out, c.deactivatedOutputs)
	return out
}

// ExecuteConnectedNodes synchronously triggers every node wired to the
// given output pin and waits for them to finish — the mechanism Sequence,
// For-Each and the CSV reader use to fan out mid-body instead of waiting
// for the dispatcher's own post-body push pass.
func (c *ExecutionContext) ExecuteConnectedNodes(pinID string) error {
	pin, ok := c.boardNode.Pins[pinID]
	if !ok {
		return fmt.Errorf("pin %s not found on node %s", pinID, c.boardNode.ID)
	}
	for _, targetPinID := range pin.ConnectedTo {
		targetNode, _, ok := c.dispatcher.b.GetPinByID(targetPinID)
		if !ok {
			continue
		}
		if err := c.dispatcher.Trigger(c.ctx, targetNode.ID, false); err != nil {
			return err
		}
	}
	return nil
}

// GetVariable reads a board-scoped variable.
func (c *ExecutionContext) GetVariable(name string) (types.Value, bool) {
	v, ok := c.dispatcher.b.GetVariable(name)
	if !ok {
		return types.Value{}, false
	}
	return v.Slot().Get()
}

// SetVariable writes a board-scoped variable.
func (c *ExecutionContext) SetVariable(name string, value types.Value) {
	if v, ok := c.dispatcher.b.GetVariable(name); ok {
		v.Slot().Set(value)
	}
}

func (c *ExecutionContext) Logger() node.Logger { return c.dispatcher.logger }

func (c *ExecutionContext) RecordDebugInfo(info types.DebugInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugData[fmt.Sprintf("%s@%d", info.PinID, time.Now().UnixNano())] = info
	c.dispatcher.trace.record(c.boardNode.ID, info)
}

func (c *ExecutionContext) GetDebugData() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]interface{}, len(c.debugData))
	for k, v := range c.debugData {
		out[k] = v
	}
	return out
}

func (c *ExecutionContext) GetNodeID() string      { return c.boardNode.ID }
func (c *ExecutionContext) GetNodeType() string    { return c.boardNode.TypeID }
func (c *ExecutionContext) GetBlueprintID() string { return c.dispatcher.b.ID }
func (c *ExecutionContext) GetExecutionID() string { return c.dispatcher.executionID }

func (c *ExecutionContext) SaveData(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved[key] = value
}

// AppState exposes the run's injected app state to node implementations
// that need out-of-band host services; not part of node.ExecutionContext
// since most node bodies never need it.
func (c *ExecutionContext) AppState() core.AppState { return c.dispatcher.appState }

// Cache exposes the run's resource cache.
func (c *ExecutionContext) Cache() *cache.ResourceCache { return c.dispatcher.cache }

// Emit pushes a telemetry event through the run's buffered handler.
func (c *ExecutionContext) Emit(eventType string, payload interface{}) {
	if c.dispatcher.events == nil {
		return
	}
	_ = c.dispatcher.events.Send(c.ctx, event.InterComEvent{
		EventType:   eventType,
		ExecutionID: c.dispatcher.executionID,
		NodeID:      c.boardNode.ID,
		Payload:     payload,
		Timestamp:   time.Now(),
	})
}

// CallReference invokes another board node by ID as a delegated sub-call
// rather than through a board edge: it seeds the callee's input pin slots
// directly, triggers the callee (marked Delegated in the trace so a
// debugger can render "jumped to" rather than "executed next"), and
// returns the callee's output slots. This is Call-Reference's only hook
// into the dispatcher; ordinary nodes never need it.
func (c *ExecutionContext) CallReference(targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error) {
	return c.dispatcher.callReference(c.ctx, targetNodeID, inputs)
}

// reportNodeError wraps a node body error through the engine's error
// taxonomy before it's surfaced to the run.
func reportNodeError(nodeID string, err error) *bperrors.Error {
	return bperrors.Executionf(nodeID, err)
}
