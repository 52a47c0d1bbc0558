package nodetest

import (
	"flowboard/internal/node"
	"flowboard/internal/types"
)

// Context is a fake node.ExecutionContext a test builds directly: set
// inputs and board variables before calling Execute, then assert against
// Outputs/Activated/Deactivated/Vars afterward.
type Context struct {
	NodeID      string
	NodeType    string
	BlueprintID string
	ExecutionID string

	Inputs      map[string]types.Value
	Outputs     map[string]types.Value
	Vars        map[string]types.Value
	Activated   []string
	Deactivated []string
	ActivePins  map[string]bool
	Connected   map[string]int // pinID -> ExecuteConnectedNodes call count
	SavedData   map[string]interface{}
	Debug       []types.DebugInfo

	connectedErr map[string]error
}

// New builds an empty Context ready for a test to populate Inputs/Vars.
func New(nodeID, nodeType string) *Context {
	return &Context{
		NodeID:      nodeID,
		NodeType:    nodeType,
		BlueprintID: "test-board",
		ExecutionID: "test-run",
		Inputs:      make(map[string]types.Value),
		Outputs:     make(map[string]types.Value),
		Vars:        make(map[string]types.Value),
		ActivePins:  make(map[string]bool),
		Connected:   make(map[string]int),
		SavedData:   make(map[string]interface{}),
		connectedErr: make(map[string]error),
	}
}

// CallerContext wraps a Context with the dispatcher-side hook
// Call-Reference's Execute type-asserts for. Ordinary Contexts don't
// implement CallReference at all, so a node under test against a plain
// Context exercises Call-Reference's "context does not support delegated
// calls" error path via a genuine failed type assertion, not a stub.
type CallerContext struct {
	*Context
	fn func(targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error)
}

// WithCallReference wraps c in a CallerContext backed by fn.
func (c *Context) WithCallReference(fn func(targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error)) *CallerContext {
	return &CallerContext{Context: c, fn: fn}
}

func (w *CallerContext) CallReference(targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error) {
	return w.fn(targetNodeID, inputs)
}

// FailConnected makes a future ExecuteConnectedNodes(pinID) call return err,
// for exercising a node's mid-body fan-out error path (Sequence, For-Each).
func (c *Context) FailConnected(pinID string, err error) *Context {
	c.connectedErr[pinID] = err
	return c
}

func (c *Context) GetInputValue(pinID string) (types.Value, bool) {
	v, ok := c.Inputs[pinID]
	return v, ok
}

func (c *Context) SetOutputValue(pinID string, value types.Value) {
	c.Outputs[pinID] = value
}

func (c *Context) IsInputPinActive(pinID string) bool {
	if len(c.ActivePins) == 0 {
		return pinID == "exec"
	}
	return c.ActivePins[pinID]
}

func (c *Context) ActivateOutputFlow(pinID string) error {
	c.Activated = append(c.Activated, pinID)
	return nil
}

func (c *Context) DeactivateOutputFlow(pinID string) error {
	c.Deactivated = append(c.Deactivated, pinID)
	return nil
}

func (c *Context) ExecuteConnectedNodes(pinID string) error {
	c.Connected[pinID]++
	return c.connectedErr[pinID]
}

func (c *Context) GetVariable(name string) (types.Value, bool) {
	v, ok := c.Vars[name]
	return v, ok
}

func (c *Context) SetVariable(name string, value types.Value) {
	c.Vars[name] = value
}

func (c *Context) Logger() node.Logger {
	return Logger{}
}

func (c *Context) RecordDebugInfo(info types.DebugInfo) {
	c.Debug = append(c.Debug, info)
}

func (c *Context) GetDebugData() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Debug))
	for i, d := range c.Debug {
		out[d.NodeID+string(rune(i))] = d
	}
	return out
}

func (c *Context) GetNodeID() string      { return c.NodeID }
func (c *Context) GetNodeType() string    { return c.NodeType }
func (c *Context) GetBlueprintID() string { return c.BlueprintID }
func (c *Context) GetExecutionID() string { return c.ExecutionID }

func (c *Context) SaveData(key string, value interface{}) {
	c.SavedData[key] = value
}

var _ node.ExecutionContext = (*Context)(nil)
