package commands

import (
	"fmt"

	"flowboard/pkg/board"
)

// AddNodeCommand inserts a fully-formed node (caller supplies its pins).
type AddNodeCommand struct {
	Node *board.Node `json:"node"`
}

func (c *AddNodeCommand) Execute(b *board.Board) error {
	if _, exists := b.Nodes[c.Node.ID]; exists {
		return fmt.Errorf("node %s already exists", c.Node.ID)
	}
	b.Nodes[c.Node.ID] = c.Node
	return nil
}

func (c *AddNodeCommand) Undo(b *board.Board) error {
	delete(b.Nodes, c.Node.ID)
	return nil
}

// RemoveNodeCommand deletes a node and every edge touching it, capturing
// enough state in Execute to fully restore it on Undo.
type RemoveNodeCommand struct {
	NodeID string `json:"nodeId"`

	removed    *board.Node
	severedOut map[string][]string // pinID -> displaced ConnectedTo targets
	severedIn  map[string][]string // pinID -> displaced DependsOn sources
}

func (c *RemoveNodeCommand) Execute(b *board.Board) error {
	n, ok := b.Nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("node %s not found", c.NodeID)
	}
	c.removed = n
	c.severedOut = make(map[string][]string)
	c.severedIn = make(map[string][]string)

	for _, other := range b.Nodes {
		if other.ID == c.NodeID {
			continue
		}
		for _, p := range other.Pins {
			var keepDeps, keepConns []string
			for _, id := range p.DependsOn {
				if _, ours := n.Pins[id]; ours {
					c.severedIn[p.ID] = append(c.severedIn[p.ID], id)
				} else {
					keepDeps = append(keepDeps, id)
				}
			}
			for _, id := range p.ConnectedTo {
				if _, ours := n.Pins[id]; ours {
					c.severedOut[p.ID] = append(c.severedOut[p.ID], id)
				} else {
					keepConns = append(keepConns, id)
				}
			}
			p.DependsOn = keepDeps
			p.ConnectedTo = keepConns
		}
	}

	delete(b.Nodes, c.NodeID)
	b.FixPins()
	return nil
}

func (c *RemoveNodeCommand) Undo(b *board.Board) error {
	if c.removed == nil {
		return fmt.Errorf("nothing to restore")
	}
	b.Nodes[c.removed.ID] = c.removed

	for _, other := range b.Nodes {
		for _, p := range other.Pins {
			p.DependsOn = append(p.DependsOn, c.severedIn[p.ID]...)
			p.ConnectedTo = append(p.ConnectedTo, c.severedOut[p.ID]...)
		}
	}
	b.FixPins()
	return nil
}

// UpdateNodeCommand replaces a node's whole stored record, pins included,
// with New (keeping NodeID as its ID), holding on to the prior record so
// Undo can restore the exact prior struct.
type UpdateNodeCommand struct {
	NodeID string      `json:"nodeId"`
	New    *board.Node `json:"new"`

	previous *board.Node
}

func (c *UpdateNodeCommand) Execute(b *board.Board) error {
	existing, ok := b.Nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("node %s not found", c.NodeID)
	}
	c.previous = existing
	c.New.ID = c.NodeID
	b.Nodes[c.NodeID] = c.New
	return nil
}

func (c *UpdateNodeCommand) Undo(b *board.Board) error {
	if c.previous == nil {
		return fmt.Errorf("nothing to restore")
	}
	b.Nodes[c.NodeID] = c.previous
	return nil
}

// MoveNodeCommand translates a single node by a delta. It moves nothing
// else; moving a layer's nodes and comments together is MoveLayerCommand's
// job.
type MoveNodeCommand struct {
	NodeID string  `json:"nodeId"`
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
}

func (c *MoveNodeCommand) Execute(b *board.Board) error {
	n, ok := b.Nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("node %s not found", c.NodeID)
	}
	n.Position.X += c.DeltaX
	n.Position.Y += c.DeltaY

	if n.LayerID == "" {
		return nil
	}
	// A moved node isn't itself a layer, so there's nothing further to
	// cascade to in this direction; layer-drag cascades are driven by
	// MoveLayerCommand instead (same delta semantics, different scope).
	return nil
}

func (c *MoveNodeCommand) Undo(b *board.Board) error {
	n, ok := b.Nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("node %s not found", c.NodeID)
	}
	n.Position.X -= c.DeltaX
	n.Position.Y -= c.DeltaY
	return nil
}

// MoveLayerCommand translates every node and comment belonging to a layer
// (and its descendant layers) by the same delta, grounded on the same
// cascading-move semantics a collapsed layer drag needs.
type MoveLayerCommand struct {
	LayerID string  `json:"layerId"`
	DeltaX  float64 `json:"deltaX"`
	DeltaY  float64 `json:"deltaY"`
}

func (c *MoveLayerCommand) layerIDs(b *board.Board) map[string]bool {
	ids := map[string]bool{c.LayerID: true}
	changed := true
	for changed {
		changed = false
		for _, l := range b.Layers {
			if ids[l.ParentID] && !ids[l.ID] {
				ids[l.ID] = true
				changed = true
			}
		}
	}
	return ids
}

func (c *MoveLayerCommand) Execute(b *board.Board) error {
	ids := c.layerIDs(b)
	for _, n := range b.Nodes {
		if ids[n.LayerID] {
			n.Position.X += c.DeltaX
			n.Position.Y += c.DeltaY
		}
	}
	for _, cm := range b.Comments {
		if ids[cm.LayerID] {
			cm.Position.X += c.DeltaX
			cm.Position.Y += c.DeltaY
		}
	}
	return nil
}

func (c *MoveLayerCommand) Undo(b *board.Board) error {
	inv := &MoveLayerCommand{LayerID: c.LayerID, DeltaX: -c.DeltaX, DeltaY: -c.DeltaY}
	return inv.Execute(b)
}
