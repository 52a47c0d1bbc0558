package commands

import (
	"flowboard/pkg/board"
)

// UpsertLayerCommand adds or replaces a layer.
type UpsertLayerCommand struct {
	Layer *board.Layer `json:"layer"`

	existed  bool
	previous board.Layer
}

func (c *UpsertLayerCommand) Execute(b *board.Board) error {
	if prev, ok := b.Layers[c.Layer.ID]; ok {
		c.existed = true
		c.previous = *prev
	}
	b.Layers[c.Layer.ID] = c.Layer
	return nil
}

func (c *UpsertLayerCommand) Undo(b *board.Board) error {
	if c.existed {
		prev := c.previous
		b.Layers[c.Layer.ID] = &prev
		return nil
	}
	delete(b.Layers, c.Layer.ID)
	return nil
}

// RemoveLayerCommand deletes a layer in one of two modes: PreserveNodes
// reparents the layer's direct node/comment/child-layer members onto its
// own parent layer before deleting it; the non-preserving mode recursively
// deletes the layer, every nested child layer, and every node owned by any
// of them. Undo restores exactly what was removed or reparented.
type RemoveLayerCommand struct {
	LayerID       string `json:"layerId"`
	PreserveNodes bool   `json:"preserveNodes"`

	removedLayer    *board.Layer
	removedChildren []*board.Layer
	removedNodes    []*board.Node
	reparentedNodes []string
	reparentedChild []string
	reparentedCmts  []string
}

func (c *RemoveLayerCommand) Execute(b *board.Board) error {
	layer, ok := b.Layers[c.LayerID]
	if !ok {
		return nil
	}
	c.removedLayer = layer
	parentID := layer.ParentID

	for _, cm := range b.Comments {
		if cm.LayerID == c.LayerID {
			cm.LayerID = parentID
			c.reparentedCmts = append(c.reparentedCmts, cm.ID)
		}
	}

	if !c.PreserveNodes {
		removedLayers := map[string]bool{c.LayerID: true}
		toVisit := []string{c.LayerID}
		for len(toVisit) > 0 {
			current := toVisit[len(toVisit)-1]
			toVisit = toVisit[:len(toVisit)-1]
			for _, l := range b.Layers {
				if l.ParentID == current && !removedLayers[l.ID] {
					removedLayers[l.ID] = true
					toVisit = append(toVisit, l.ID)
				}
			}
		}
		for id := range removedLayers {
			if l, ok := b.Layers[id]; ok {
				if id != c.LayerID {
					c.removedChildren = append(c.removedChildren, l)
				}
				delete(b.Layers, id)
			}
		}
		for id, n := range b.Nodes {
			if removedLayers[n.LayerID] {
				c.removedNodes = append(c.removedNodes, n)
				delete(b.Nodes, id)
			}
		}
	} else {
		for _, n := range b.Nodes {
			if n.LayerID == c.LayerID {
				n.LayerID = parentID
				c.reparentedNodes = append(c.reparentedNodes, n.ID)
			}
		}
		for _, l := range b.Layers {
			if l.ParentID == c.LayerID {
				l.ParentID = parentID
				c.reparentedChild = append(c.reparentedChild, l.ID)
			}
		}
		delete(b.Layers, c.LayerID)
	}

	b.FixPinsSetLayer(c.LayerID, parentID)
	return nil
}

func (c *RemoveLayerCommand) Undo(b *board.Board) error {
	if c.removedLayer == nil {
		return nil
	}
	for _, l := range c.removedChildren {
		b.Layers[l.ID] = l
	}
	b.Layers[c.removedLayer.ID] = c.removedLayer
	for _, n := range c.removedNodes {
		b.Nodes[n.ID] = n
	}
	for _, id := range c.reparentedNodes {
		if n, ok := b.Nodes[id]; ok {
			n.LayerID = c.removedLayer.ID
		}
	}
	for _, id := range c.reparentedChild {
		if l, ok := b.Layers[id]; ok {
			l.ParentID = c.removedLayer.ID
		}
	}
	for _, id := range c.reparentedCmts {
		if cm, ok := b.Comments[id]; ok {
			cm.LayerID = c.removedLayer.ID
		}
	}
	return nil
}
