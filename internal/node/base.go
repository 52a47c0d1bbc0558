package node

import (
	"flowboard/internal/types"
)

// BaseNode provides the common bookkeeping every concrete node type embeds:
// metadata plus pin/property storage with the getters/setters Node requires.
// Concrete node types still supply their own Execute.
type BaseNode struct {
	Metadata   NodeMetadata
	Inputs     []types.Pin
	Outputs    []types.Pin
	Properties []types.Property
}

// GetMetadata returns the node's metadata
func (n *BaseNode) GetMetadata() NodeMetadata {
	return n.Metadata
}

// GetInputPins returns the node's input pins
func (n *BaseNode) GetInputPins() []types.Pin {
	return n.Inputs
}

// SetInputPins replaces the node's input pins.
func (n *BaseNode) SetInputPins(pins []types.Pin) {
	n.Inputs = pins
}

// GetOutputPins returns the node's output pins
func (n *BaseNode) GetOutputPins() []types.Pin {
	return n.Outputs
}

// SetOutputPins replaces the node's output pins.
func (n *BaseNode) SetOutputPins(pins []types.Pin) {
	n.Outputs = pins
}

func (n *BaseNode) GetProperties() []types.Property {
	return n.Properties
}

// SetProperty updates an existing property's value in place; unknown
// property names are ignored rather than appended, matching how node
// bodies read properties by fixed name.
func (n *BaseNode) SetProperty(name string, value interface{}) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			n.Properties[i].Value = value
			return
		}
	}
}
