// Package data implements the literal-value and variable-access node
// catalog: constants and board-variable get/set, the minimum a board needs
// to feed values into the rest of the graph.
package data

import (
	"encoding/json"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// constantExecutor is a BaseNode whose single output pin default is
// written to its slot on every Execute; plain BaseNode has no Execute of
// its own, so this is the thinnest node.Node a literal-value node needs.
type constantExecutor struct {
	node.BaseNode
}

func (c *constantExecutor) Execute(ctx node.ExecutionContext) error {
	pin := c.Outputs[0]
	v, err := pin.DefaultAsValue()
	if err != nil {
		return err
	}
	ctx.SetOutputValue("value", v)
	return nil
}

func newConstant(typeID, name string, varType types.VariableType, def interface{}) node.Node {
	defBytes, _ := json.Marshal(def)
	return &constantExecutor{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      typeID,
				Name:        name,
				Description: "Outputs a fixed " + name + " value",
				Category:    "Data",
				Version:     "1.0.0",
			},
			Outputs: []types.Pin{
				{ID: "value", Name: "Value", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: varType}, DefaultValue: defBytes},
			},
		},
	}
}

func NewStringConstantNode() node.Node {
	return newConstant("constant-string", "String", types.VariableTypeString, "")
}

func NewNumberConstantNode() node.Node {
	return newConstant("constant-number", "Number", types.VariableTypeFloat, 0.0)
}

func NewBooleanConstantNode() node.Node {
	return newConstant("constant-boolean", "Boolean", types.VariableTypeBoolean, false)
}
