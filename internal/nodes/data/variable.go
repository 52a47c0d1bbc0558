package data

import (
	"fmt"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// VariableGetNode reads a board-scoped variable by name (set via the
// "name" property) and outputs its current value.
type VariableGetNode struct {
	node.BaseNode
}

func NewVariableGetNode() node.Node {
	return &VariableGetNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "variable-get",
				Name:        "Get Variable",
				Description: "Reads a board variable",
				Category:    "Data",
				Version:     "1.0.0",
			},
			Properties: []types.Property{{Name: "name", Value: ""}},
			Outputs: []types.Pin{
				{ID: "value", Name: "Value", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
			},
		},
	}
}

func (n *VariableGetNode) Execute(ctx node.ExecutionContext) error {
	name := propertyString(n.Properties, "name")
	if name == "" {
		return fmt.Errorf("variable-get: no variable name configured")
	}
	v, ok := ctx.GetVariable(name)
	if !ok {
		return fmt.Errorf("variable-get: variable %q not found", name)
	}
	ctx.SetOutputValue("value", v)
	return nil
}

// VariableSetNode writes its "value" input to a board-scoped variable
// named by the "name" property, then passes execution through.
type VariableSetNode struct {
	node.BaseNode
}

func NewVariableSetNode() node.Node {
	return &VariableSetNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "variable-set",
				Name:        "Set Variable",
				Description: "Writes a board variable",
				Category:    "Data",
				Version:     "1.0.0",
			},
			Properties: []types.Property{{Name: "name", Value: ""}},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
				{ID: "value", Name: "Value", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
			},
			Outputs: []types.Pin{
				{ID: "then", Name: "Then", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
			},
		},
	}
}

func (n *VariableSetNode) Execute(ctx node.ExecutionContext) error {
	name := propertyString(n.Properties, "name")
	if name == "" {
		return fmt.Errorf("variable-set: no variable name configured")
	}
	v, exists := ctx.GetInputValue("value")
	if !exists {
		return fmt.Errorf("variable-set: missing required input: value")
	}
	ctx.SetVariable(name, v)
	return ctx.ActivateOutputFlow("then")
}

func propertyString(props []types.Property, name string) string {
	for _, p := range props {
		if p.Name == name {
			if s, ok := p.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
