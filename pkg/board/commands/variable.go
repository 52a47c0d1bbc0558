package commands

import (
	"fmt"

	"flowboard/internal/types"
	"flowboard/pkg/board"
)

// UpsertVariableCommand adds or replaces a board-scoped variable.
type UpsertVariableCommand struct {
	Variable *types.Variable `json:"variable"`

	existed  bool
	previous types.Variable
}

func (c *UpsertVariableCommand) Execute(b *board.Board) error {
	if prev, ok := b.Variables[c.Variable.ID]; ok {
		c.existed = true
		c.previous = *prev
	}
	b.Variables[c.Variable.ID] = c.Variable
	return nil
}

func (c *UpsertVariableCommand) Undo(b *board.Board) error {
	if c.existed {
		prev := c.previous
		b.Variables[c.Variable.ID] = &prev
		return nil
	}
	delete(b.Variables, c.Variable.ID)
	return nil
}

// RemoveVariableCommand deletes a board-scoped variable.
type RemoveVariableCommand struct {
	VariableID string `json:"variableId"`

	removed *types.Variable
}

func (c *RemoveVariableCommand) Execute(b *board.Board) error {
	v, ok := b.Variables[c.VariableID]
	if !ok {
		return fmt.Errorf("variable %s not found", c.VariableID)
	}
	c.removed = v
	delete(b.Variables, c.VariableID)
	return nil
}

func (c *RemoveVariableCommand) Undo(b *board.Board) error {
	if c.removed == nil {
		return fmt.Errorf("nothing to restore")
	}
	b.Variables[c.removed.ID] = c.removed
	return nil
}
