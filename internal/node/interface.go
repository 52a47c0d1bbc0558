// Package node defines the node descriptor/registry contract: the shape a
// node-type factory must satisfy, and the execution-context interface the
// engine hands to a node's body.
package node

import (
	"flowboard/internal/types"
)

// NodeMetadata describes a node type: its identity, its pins in stable
// declaration order (which also determines UI layout and Sequence-style
// dispatch tie-breaks), and whether it runs long.
type NodeMetadata struct {
	TypeID        string
	Name          string
	Description   string
	Category      string
	Icon          string
	Version       string
	LongRunning   bool
	EventCallback bool
	Properties    []types.Property
	InputPins     []types.Pin
	OutputPins    []types.Pin
}

// BoardView is the read-only slice of board state an OnUpdate hook may
// consult (to look up a referenced node's pins, say) without being able to
// mutate connections — OnUpdate must be idempotent and must never create
// connections.
type BoardView interface {
	NodeByID(id string) (Node, bool)
	PinTypeOf(nodeID, pinID string) (types.TypePair, bool)
}

// Node is the interface every node type implements.
type Node interface {
	GetMetadata() NodeMetadata
	GetInputPins() []types.Pin
	SetInputPins(pins []types.Pin)
	GetOutputPins() []types.Pin
	SetOutputPins(pins []types.Pin)
	GetProperties() []types.Property
	SetProperty(name string, value interface{})

	// Execute runs the node's logic with the given execution context.
	Execute(ctx ExecutionContext) error
}

// Updatable is implemented by nodes that rewrite their own pin set in
// response to connectivity or default-value changes (e.g. Call-Reference
// deriving input pins from the referenced node's outputs).
type Updatable interface {
	OnUpdate(self Node, board BoardView) error
}

// ProgressReporter is implemented by long-running nodes that can report a
// 0-100 completion estimate mid-execution.
type ProgressReporter interface {
	Progress(ctx ExecutionContext) int32
}

// Logger is the structured logging façade handed to node bodies.
type Logger interface {
	Opts(map[string]interface{})
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ExecutionContext is the service surface a node body sees during Execute.
type ExecutionContext interface {
	// Input/output access.
	GetInputValue(pinID string) (types.Value, bool)
	SetOutputValue(pinID string, value types.Value)
	IsInputPinActive(pinID string) bool

	// Execution control: mark an outgoing exec pin to fire on the next
	// dispatch pass.
	ActivateOutputFlow(pinID string) error
	DeactivateOutputFlow(pinID string) error

	// ExecuteConnectedNodes synchronously dispatches every node connected
	// to the given output pin and waits for them to finish, for nodes
	// that need to fan out mid-body (Sequence, For-Each, the CSV reader).
	ExecuteConnectedNodes(pinID string) error

	// Board-scoped variables.
	GetVariable(name string) (types.Value, bool)
	SetVariable(name string, value types.Value)

	Logger() Logger

	RecordDebugInfo(info types.DebugInfo)
	GetDebugData() map[string]interface{}

	GetNodeID() string
	GetNodeType() string
	GetBlueprintID() string
	GetExecutionID() string

	// SaveData stashes a value the host can retrieve out-of-band (e.g. a
	// preview value for the board editor).
	SaveData(key string, value interface{})
}

// ExtendedExecutionContext is the superset of ExecutionContext the engine
// itself needs (not exposed to ordinary node bodies).
type ExtendedExecutionContext interface {
	ExecutionContext
	SetInput(pinID string, value types.Value)
	GetOutputValue(pinID string) (types.Value, bool)
	GetAllOutputs() map[string]types.Value
	GetActivatedOutputFlows() []string
	GetDeactivatedOutputFlows() []string
}

// ExecutionHooks lets an embedding host observe execution events without
// the engine depending on any particular transport.
type ExecutionHooks struct {
	OnNodeStart    func(nodeID, nodeType string)
	OnNodeComplete func(nodeID, nodeType string)
	OnNodeError    func(nodeID string, err error)
	OnPinValue     func(nodeID, pinName string, value interface{})
	OnLog          func(nodeID, message string)
}

// NodeFactory creates a new instance of a node type. Factories must be
// side-effect free and safe to call concurrently (the registry is
// read-mostly).
type NodeFactory func() Node
