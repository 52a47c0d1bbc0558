package commands

import (
	"fmt"

	"flowboard/pkg/board"
	"flowboard/internal/types"
)

// UpsertPinCommand adds a pin to a node or replaces an existing one with
// the same ID, preserving any live connections by ID.
type UpsertPinCommand struct {
	NodeID string     `json:"nodeId"`
	Pin    *types.Pin `json:"pin"`

	existed  bool
	previous types.Pin
}

func (c *UpsertPinCommand) Execute(b *board.Board) error {
	n, ok := b.Nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("node %s not found", c.NodeID)
	}
	if prev, ok := n.Pins[c.Pin.ID]; ok {
		c.existed = true
		c.previous = *prev
	} else {
		n.PinOrder = append(n.PinOrder, c.Pin.ID)
	}
	n.Pins[c.Pin.ID] = c.Pin
	b.FixPins()
	return nil
}

func (c *UpsertPinCommand) Undo(b *board.Board) error {
	n, ok := b.Nodes[c.NodeID]
	if !ok {
		return fmt.Errorf("node %s not found", c.NodeID)
	}
	if c.existed {
		prev := c.previous
		n.Pins[c.Pin.ID] = &prev
		return nil
	}
	delete(n.Pins, c.Pin.ID)
	for i, id := range n.PinOrder {
		if id == c.Pin.ID {
			n.PinOrder = append(n.PinOrder[:i], n.PinOrder[i+1:]...)
			break
		}
	}
	b.FixPins()
	return nil
}
