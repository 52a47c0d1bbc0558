package commands

import (
	"github.com/google/uuid"

	"flowboard/internal/types"
	"flowboard/pkg/board"
)

// CopyPasteCommand deep-clones a set of nodes and comments, remapping every
// node ID and pin ID to a fresh one, translating every pin edge through the
// remap table, and dropping any edge whose endpoint fell outside the pasted
// subset (an edge to a node that wasn't copied along with it).
type CopyPasteCommand struct {
	OriginalNodeIDs    []string `json:"originalNodeIds"`
	OriginalCommentIDs []string `json:"originalCommentIds"`
	OffsetX            float64  `json:"offsetX"`
	OffsetY            float64  `json:"offsetY"`

	originalNodes    []*board.Node
	originalComments []*board.Comment
	newNodeIDs       []string
	newCommentIDs    []string
}

func (c *CopyPasteCommand) Execute(b *board.Board) error {
	c.originalNodes = c.originalNodes[:0]
	c.originalComments = c.originalComments[:0]

	for _, id := range c.OriginalNodeIDs {
		if n, ok := b.Nodes[id]; ok {
			c.originalNodes = append(c.originalNodes, n)
		}
	}
	for _, id := range c.OriginalCommentIDs {
		if cm, ok := b.Comments[id]; ok {
			c.originalComments = append(c.originalComments, cm)
		}
	}

	remap := make(map[string]string)

	for _, cm := range c.originalComments {
		clone := *cm
		clone.ID = uuid.NewString()
		clone.Position.X += c.OffsetX
		clone.Position.Y += c.OffsetY
		b.Comments[clone.ID] = &clone
		c.newCommentIDs = append(c.newCommentIDs, clone.ID)
	}

	clones := make([]*board.Node, 0, len(c.originalNodes))
	for _, n := range c.originalNodes {
		clone := &board.Node{
			ID:       uuid.NewString(),
			TypeID:   n.TypeID,
			Position: board.Position{X: n.Position.X + c.OffsetX, Y: n.Position.Y + c.OffsetY},
			LayerID:  n.LayerID,
			Comment:  n.Comment,
			Pins:     make(map[string]*types.Pin, len(n.Pins)),
		}
		remap[n.ID] = clone.ID

		for _, pinID := range n.PinOrder {
			src := n.Pins[pinID]
			pinClone := *src
			newPinID := uuid.NewString()
			remap[pinID] = newPinID
			pinClone.ID = newPinID
			clone.Pins[newPinID] = &pinClone
			clone.PinOrder = append(clone.PinOrder, newPinID)
		}
		clones = append(clones, clone)
	}

	for _, clone := range clones {
		for _, p := range clone.Pins {
			p.DependsOn = translateIDs(p.DependsOn, remap)
			p.ConnectedTo = translateIDs(p.ConnectedTo, remap)
		}
		b.Nodes[clone.ID] = clone
		c.newNodeIDs = append(c.newNodeIDs, clone.ID)
	}

	b.FixPins()
	return nil
}

// translateIDs maps each id through remap, dropping ids that have no
// mapping (an edge leaving the pasted subset).
func translateIDs(ids []string, remap map[string]string) []string {
	var out []string
	for _, id := range ids {
		if mapped, ok := remap[id]; ok {
			out = append(out, mapped)
		}
	}
	return out
}

func (c *CopyPasteCommand) Undo(b *board.Board) error {
	for _, id := range c.newNodeIDs {
		delete(b.Nodes, id)
	}
	for _, id := range c.newCommentIDs {
		delete(b.Comments, id)
	}
	c.newNodeIDs = nil
	c.newCommentIDs = nil
	b.FixPins()
	return nil
}
