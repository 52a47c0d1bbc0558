package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"flowboard/internal/bperrors"
	"flowboard/internal/cache"
	"flowboard/internal/core"
	"flowboard/internal/event"
	"flowboard/internal/node"
	"flowboard/internal/types"
	"flowboard/pkg/board"
)

// TraceNode is one node's entry in a run's execution trace tree. Delegated
// children are nodes reached through a Call-Reference style handoff rather
// than ordinary sequential dispatch, and are kept distinguishable so a
// debugger can render "jumped to" separately from "executed next".
type TraceNode struct {
	NodeID    string                   `json:"nodeId"`
	Delegated bool                     `json:"delegated"`
	Debug     []types.DebugInfo        `json:"debug,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Children  []*TraceNode             `json:"children,omitempty"`

	mu sync.Mutex
}

func (t *TraceNode) record(nodeID string, info types.DebugInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if nodeID == t.NodeID {
		t.Debug = append(t.Debug, info)
		return
	}
	for _, child := range t.Children {
		child.record(nodeID, info)
	}
}

func (t *TraceNode) child(nodeID string, delegated bool) *TraceNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &TraceNode{NodeID: nodeID, Delegated: delegated}
	t.Children = append(t.Children, c)
	return c
}

// Dispatcher walks a board: it pull-resolves data dependencies on demand
// and push-dispatches activated execution pins in pin-index order.
type Dispatcher struct {
	b           *board.Board
	executionID string
	appState    core.AppState
	profile     *core.Profile
	cache       *cache.ResourceCache
	events      *event.BufferedHandler
	logger      node.Logger
	trace       *TraceNode

	mu         sync.Mutex
	executed   map[string]bool // nodes whose body has already run this execution
	activePins map[string]bool // "nodeID:pinID" -> activated this pass
	guard      map[string]int  // nodeID -> occurrences in the current trigger chain, cycle guard
	cancel     <-chan struct{}
}

// NewDispatcher builds a dispatcher bound to one run's resources.
func NewDispatcher(b *board.Board, executionID string, appState core.AppState, profile *core.Profile, c *cache.ResourceCache, events *event.BufferedHandler, logger node.Logger, cancel <-chan struct{}) *Dispatcher {
	return &Dispatcher{
		b:           b,
		executionID: executionID,
		appState:    appState,
		profile:     profile,
		cache:       c,
		events:      events,
		logger:      logger,
		trace:       &TraceNode{NodeID: "__root__"},
		executed:    make(map[string]bool),
		activePins:  make(map[string]bool),
		guard:       make(map[string]int),
		cancel:      cancel,
	}
}

// Trace returns the root of the assembled execution trace.
func (d *Dispatcher) Trace() *TraceNode { return d.trace }

func (d *Dispatcher) canceled() bool {
	select {
	case <-d.cancel:
		return true
	default:
		return false
	}
}

func (d *Dispatcher) wasActivated(nodeID, pinID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activePins[nodeID+":"+pinID]
}

// resolve runs a node's body exactly once (memoized), for pull-resolving a
// data dependency — it does not push-dispatch the node's execution
// outputs, since a pure data producer has none worth firing.
func (d *Dispatcher) resolve(ctx context.Context, nodeID string) error {
	d.mu.Lock()
	if d.executed[nodeID] {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()
	_, err := d.runBodyTraced(ctx, nodeID, d.trace.child(nodeID, false))
	return err
}

// Trigger is the scheduler entry point: pull-resolve this node's data
// inputs, run its body, then push-dispatch every activated execution
// output's targets, in ascending pin-index order, depth-first.
func (d *Dispatcher) Trigger(ctx context.Context, nodeID string, delegated bool) error {
	return d.triggerInto(ctx, nodeID, d.trace, delegated)
}

func (d *Dispatcher) triggerInto(ctx context.Context, nodeID string, parent *TraceNode, delegated bool) error {
	if d.canceled() {
		return fmt.Errorf("execution canceled")
	}

	d.mu.Lock()
	if d.guard[nodeID] > 0 {
		// nodeID is already present in the current trigger chain — a
		// call-reference cycle or similar accidental loop. Return without
		// executing rather than entering it twice.
		d.mu.Unlock()
		return nil
	}
	d.guard[nodeID] = 1
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.guard[nodeID]--
		d.mu.Unlock()
	}()

	trace := parent.child(nodeID, delegated)

	activated, err := d.runBodyTraced(ctx, nodeID, trace)
	if err != nil {
		trace.Error = err.Error()
		return err
	}

	runtime, bn, err := d.b.RuntimeNode(nodeID)
	if err != nil {
		return err
	}

	sort.Slice(activated, func(i, j int) bool {
		return bn.Pins[activated[i]].Index < bn.Pins[activated[j]].Index
	})

	for _, pinID := range activated {
		pin, ok := bn.Pins[pinID]
		if !ok || !pin.IsExecution() {
			continue
		}
		for _, targetPinID := range pin.ConnectedTo {
			targetNode, targetPin, ok := d.b.GetPinByID(targetPinID)
			if !ok {
				continue
			}
			d.mu.Lock()
			d.activePins[targetNode.ID+":"+targetPin.ID] = true
			d.mu.Unlock()
			if err := d.triggerInto(ctx, targetNode.ID, trace, false); err != nil {
				return err
			}
		}
	}

	_ = runtime
	return nil
}

// runBodyTraced pull-resolves inputs and runs a node's Execute, attaching
// its debug trace under parent. A node's body re-runs on every trigger
// (no run-once memoization): a loop body must re-execute every iteration,
// so the dispatcher only relies on the board's single-edge-per-pin rule
// (connecting an exec or data pin displaces any prior edge) to keep a
// normal, non-looping dispatch from ever re-entering the same node twice
// in one pass. Returns the execution pins the body activated.
func (d *Dispatcher) runBodyTraced(ctx context.Context, nodeID string, trace *TraceNode) ([]string, error) {
	d.mu.Lock()
	d.executed[nodeID] = true
	d.mu.Unlock()

	runtime, bn, err := d.b.RuntimeNode(nodeID)
	if err != nil {
		berr := bperrors.Registryf(nodeID, "%s", err.Error())
		trace.Error = berr.Error()
		return nil, berr
	}

	if updatable, ok := runtime.(node.Updatable); ok {
		if err := updatable.OnUpdate(runtime, d.b); err != nil {
			d.logger.Warn("node OnUpdate failed", map[string]interface{}{"node": nodeID, "error": err.Error()})
		} else {
			d.b.SyncNodePins(nodeID)
		}
	}

	if err := d.resolveDataInputs(ctx, bn); err != nil {
		return nil, err
	}

	execCtx := newExecutionContext(ctx, d, bn)

	if d.events != nil {
		_ = d.events.Send(ctx, event.InterComEvent{EventType: event.EventNodeStarted, ExecutionID: d.executionID, NodeID: nodeID})
	}

	err = runtime.Execute(execCtx)

	if d.events != nil {
		evType := event.EventNodeCompleted
		if err != nil {
			evType = event.EventNodeFailed
		}
		_ = d.events.Send(ctx, event.InterComEvent{EventType: evType, ExecutionID: d.executionID, NodeID: nodeID})
	}

	trace.Debug = append(trace.Debug, toDebugInfos(execCtx.GetDebugData())...)

	if err != nil {
		berr := bperrors.Executionf(nodeID, err)
		trace.Error = berr.Error()
		if failedPin, ok := bn.Pins["failed"]; ok && failedPin.IsExecution() {
			return []string{"failed"}, nil
		}
		return nil, berr
	}

	deactivated := make(map[string]bool)
	for _, p := range execCtx.GetDeactivatedOutputFlows() {
		deactivated[p] = true
	}
	var activated []string
	for _, p := range execCtx.GetActivatedOutputFlows() {
		if !deactivated[p] {
			activated = append(activated, p)
		}
	}
	return activated, nil
}

// callReference seeds targetNodeID's input slots, triggers it as a
// Delegated child of the run's root trace, and reads back its output
// slots. The callee is not memo-gated any differently than an ordinary
// push-triggered node, so a Call-Reference inside a loop body re-invokes
// its target once per iteration just like any other node.
func (d *Dispatcher) callReference(ctx context.Context, targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error) {
	bn, ok := d.b.Nodes[targetNodeID]
	if !ok {
		return nil, fmt.Errorf("call-reference: node %s not found", targetNodeID)
	}
	for pinID, v := range inputs {
		if p, ok := bn.Pins[pinID]; ok {
			p.Slot().Set(v)
		}
	}
	if err := d.triggerInto(ctx, targetNodeID, d.trace, true); err != nil {
		return nil, err
	}
	out := make(map[string]types.Value)
	for id, p := range bn.Pins {
		if p.Direction != types.PinDirectionOutput {
			continue
		}
		if v, set := p.Slot().Get(); set {
			out[id] = v
		}
	}
	return out, nil
}

func toDebugInfos(m map[string]interface{}) []types.DebugInfo {
	out := make([]types.DebugInfo, 0, len(m))
	for _, v := range m {
		if info, ok := v.(types.DebugInfo); ok {
			out = append(out, info)
		}
	}
	return out
}

// resolveDataInputs ensures every non-execution input pin with an upstream
// dependency has its producer executed before this node's body runs.
func (d *Dispatcher) resolveDataInputs(ctx context.Context, bn *board.Node) error {
	for _, p := range bn.Pins {
		if p.Direction != types.PinDirectionInput || p.IsExecution() {
			continue
		}
		for _, sourcePinID := range p.DependsOn {
			srcNode, _, ok := d.b.GetPinByID(sourcePinID)
			if !ok {
				continue
			}
			if err := d.resolve(ctx, srcNode.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
