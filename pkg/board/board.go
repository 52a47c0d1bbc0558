// Package board holds the in-memory graph model — nodes, pins, variables,
// comments and layers — plus the reversible command stack that mutates it.
// Persistence and transport are host concerns; this package only holds
// state and enforces its own invariants.
package board

import (
	"fmt"
	"sync"

	"flowboard/internal/node"
	"flowboard/internal/registry"
	"flowboard/internal/types"
)

// Position is a node or comment's location on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a board's structural record for one node instance: its type,
// placement, pin set and layer membership. The live node.Node behavior
// object is instantiated from the registry lazily, on first execution.
type Node struct {
	ID       string          `json:"id"`
	TypeID   string          `json:"type"`
	Position Position        `json:"position"`
	Pins     map[string]*types.Pin `json:"pins"`
	PinOrder []string        `json:"pinOrder"`
	LayerID  string          `json:"layerId,omitempty"`
	Comment  string          `json:"comment,omitempty"`
	Error    string          `json:"error,omitempty"`

	runtime node.Node
}

// OrderedPins returns the node's pins in declaration order. Go maps don't
// preserve insertion order, so PinOrder carries it explicitly.
func (n *Node) OrderedPins() []*types.Pin {
	pins := make([]*types.Pin, 0, len(n.PinOrder))
	for _, id := range n.PinOrder {
		if p, ok := n.Pins[id]; ok {
			pins = append(pins, p)
		}
	}
	return pins
}

// Comment is a free-floating annotation on the canvas, optionally scoped to
// a layer like a node is.
type Comment struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Position Position `json:"position"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	LayerID  string   `json:"layerId,omitempty"`
}

// Layer is a named, nestable grouping of nodes and comments, used for
// visual collapsing in the editor.
type Layer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Command is anything that can mutate a Board and reverse its own mutation.
// Concrete commands live in the commands subpackage to avoid this package
// depending on them.
type Command interface {
	Execute(b *Board) error
	Undo(b *Board) error
}

// Board is the complete graph: nodes, their pins, board-scoped variables,
// comments, layers, and the undo/redo history of commands applied to it.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     [3]int `json:"version"`

	Nodes     map[string]*Node         `json:"nodes"`
	Variables map[string]*types.Variable `json:"variables"`
	Comments  map[string]*Comment      `json:"comments"`
	Layers    map[string]*Layer        `json:"layers"`

	Registry *registry.GlobalNodeRegistry `json:"-"`

	mu        sync.Mutex `json:"-"`
	undoStack []Command  `json:"-"`
	redoStack []Command  `json:"-"`
}

// New creates an empty board bound to the given node registry.
func New(id, name string, reg *registry.GlobalNodeRegistry) *Board {
	return &Board{
		ID:        id,
		Name:      name,
		Nodes:     make(map[string]*Node),
		Variables: make(map[string]*types.Variable),
		Comments:  make(map[string]*Comment),
		Layers:    make(map[string]*Layer),
		Registry:  reg,
	}
}

// GetVariable looks up a board variable by ID, falling back to a
// name-matching scan so callers holding either may resolve it.
func (b *Board) GetVariable(idOrName string) (*types.Variable, bool) {
	if v, ok := b.Variables[idOrName]; ok {
		return v, true
	}
	for _, v := range b.Variables {
		if v.Name == idOrName {
			return v, true
		}
	}
	return nil, false
}

// GetPinByID finds a pin anywhere on the board by its ID, scanning nodes
// when the owning node ID isn't already known.
func (b *Board) GetPinByID(pinID string) (*Node, *types.Pin, bool) {
	for _, n := range b.Nodes {
		if p, ok := n.Pins[pinID]; ok {
			return n, p, true
		}
	}
	return nil, nil, false
}

// NodeByID implements node.BoardView.
func (b *Board) NodeByID(id string) (node.Node, bool) {
	n, ok := b.Nodes[id]
	if !ok {
		return nil, false
	}
	return b.runtimeOf(n), true
}

// PinTypeOf implements node.BoardView.
func (b *Board) PinTypeOf(nodeID, pinID string) (types.TypePair, bool) {
	n, ok := b.Nodes[nodeID]
	if !ok {
		return types.TypePair{}, false
	}
	p, ok := n.Pins[pinID]
	if !ok {
		return types.TypePair{}, false
	}
	return p.Type, true
}

// runtimeOf lazily instantiates and caches the behavioral node.Node for a
// structural board.Node, marking the node with its registry error rather
// than failing the whole board load when a type is unknown.
func (b *Board) runtimeOf(n *Node) node.Node {
	if n.runtime != nil {
		return n.runtime
	}
	if b.Registry == nil {
		return nil
	}
	inst, err := b.Registry.NewNode(n.TypeID)
	if err != nil {
		n.Error = err.Error()
		return nil
	}
	var inputs, outputs []types.Pin
	for _, p := range n.OrderedPins() {
		if p.Direction == types.PinDirectionInput {
			inputs = append(inputs, *p)
		} else {
			outputs = append(outputs, *p)
		}
	}
	inst.SetInputPins(inputs)
	inst.SetOutputPins(outputs)
	n.runtime = inst
	return inst
}

// RuntimeNode exposes runtimeOf to callers outside the package (the engine
// dispatcher) without widening the exported surface further.
func (b *Board) RuntimeNode(nodeID string) (node.Node, *Node, error) {
	n, ok := b.Nodes[nodeID]
	if !ok {
		return nil, nil, fmt.Errorf("node %s not found", nodeID)
	}
	inst := b.runtimeOf(n)
	if inst == nil {
		return nil, n, fmt.Errorf("node %s: %s", nodeID, n.Error)
	}
	return inst, n, nil
}

// SyncNodePins reconciles a node's structural Pins map/PinOrder against its
// already-instantiated runtime's current Input/Output pin lists. A node
// that rewrites its own pins from OnUpdate (Call-Reference mirroring a
// referenced node's shape) only changes its in-memory node.Node fields;
// this copies that shape back onto the board so ExecutionContext — which
// reads/writes board.Node.Pins directly, not the runtime's own slices —
// sees the new pins and so edges drawn against them actually take effect.
// Pins that survive the resync keep their existing slot, ConnectedTo and
// DependsOn; only newly appeared pins start fresh.
func (b *Board) SyncNodePins(nodeID string) {
	n, ok := b.Nodes[nodeID]
	if !ok || n.runtime == nil {
		return
	}
	merged := make(map[string]*types.Pin)
	order := make([]string, 0, len(n.PinOrder))
	add := func(p types.Pin) {
		if existing, ok := n.Pins[p.ID]; ok {
			existing.Name = p.Name
			existing.Type = p.Type
			existing.Direction = p.Direction
			merged[p.ID] = existing
		} else {
			fresh := p
			merged[p.ID] = &fresh
		}
		order = append(order, p.ID)
	}
	for _, p := range n.runtime.GetInputPins() {
		add(p)
	}
	for _, p := range n.runtime.GetOutputPins() {
		add(p)
	}
	n.Pins = merged
	n.PinOrder = order
}

// ExecuteCommand applies a command to the board and pushes it onto the undo
// stack. append merges it into the previous entry's batch boundary instead
// of starting a new undo step (used for drag-to-move style commands that
// fire many times per user gesture); a fresh redo history is started unless
// append is set, since a new mutation invalidates any prior redo branch.
func (b *Board) ExecuteCommand(cmd Command, append bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := cmd.Execute(b); err != nil {
		return err
	}
	b.FixPins()

	if !append {
		b.redoStack = nil
	}
	b.undoStack = append2(b.undoStack, cmd)
	return nil
}

func append2(stack []Command, cmd Command) []Command {
	return append(stack, cmd)
}

// Undo reverses the most recently applied command.
func (b *Board) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.undoStack) == 0 {
		return fmt.Errorf("nothing to undo")
	}
	cmd := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]

	if err := cmd.Undo(b); err != nil {
		b.undoStack = append(b.undoStack, cmd)
		return err
	}
	b.FixPins()
	b.redoStack = append(b.redoStack, cmd)
	return nil
}

// Redo re-applies the most recently undone command.
func (b *Board) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.redoStack) == 0 {
		return fmt.Errorf("nothing to redo")
	}
	cmd := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]

	if err := cmd.Execute(b); err != nil {
		b.redoStack = append(b.redoStack, cmd)
		return err
	}
	b.FixPins()
	b.undoStack = append(b.undoStack, cmd)
	return nil
}

// FixPins re-derives every pin's ConnectedTo/DependsOn symmetry after a raw
// mutation: each input pin's DependsOn is rebuilt from the output pins'
// ConnectedTo lists, which are left untouched. It does not enforce the
// one-target-per-execution-output or one-source-per-input rules; those are
// applied by ConnectPinCommand. Call after any command that touches pin
// connectivity directly rather than through ConnectPin/DisconnectPin.
func (b *Board) FixPins() {
	// Build the authoritative edge set from each output pin's ConnectedTo,
	// which is the side commands mutate directly, then reconcile every
	// input pin's DependsOn to match exactly.
	dependsOn := make(map[string]map[string]bool)

	for _, n := range b.Nodes {
		for _, p := range n.Pins {
			if p.Direction != types.PinDirectionOutput {
				continue
			}
			for _, targetID := range p.ConnectedTo {
				if dependsOn[targetID] == nil {
					dependsOn[targetID] = make(map[string]bool)
				}
				dependsOn[targetID][p.ID] = true
			}
		}
	}

	for _, n := range b.Nodes {
		for _, p := range n.Pins {
			if p.Direction != types.PinDirectionInput {
				continue
			}
			sources := dependsOn[p.ID]
			p.DependsOn = p.DependsOn[:0]
			for src := range sources {
				p.DependsOn = append(p.DependsOn, src)
			}
		}
	}
}

// FixPinsSetLayer reparents every node/comment pin reference that pointed
// into a removed layer's now-orphaned members back onto the layer's parent,
// mirroring the "preserve contents" mode of layer removal.
func (b *Board) FixPinsSetLayer(removedLayerID, newParentLayerID string) {
	for _, n := range b.Nodes {
		if n.LayerID == removedLayerID {
			n.LayerID = newParentLayerID
		}
	}
	for _, c := range b.Comments {
		if c.LayerID == removedLayerID {
			c.LayerID = newParentLayerID
		}
	}
	for _, l := range b.Layers {
		if l.ParentID == removedLayerID {
			l.ParentID = newParentLayerID
		}
	}
}
