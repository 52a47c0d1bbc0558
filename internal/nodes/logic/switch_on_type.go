package logic

import (
	"fmt"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// SwitchOnTypeNode routes execution by the Go dynamic type of a
// Generic-typed input value's Raw payload (not its VariableType tag),
// rather than by comparing values
// (that's BranchNode's job). Useful wherever a pin is declared Generic and
// a board needs different downstream handling per concrete kind.
type SwitchOnTypeNode struct {
	node.BaseNode
}

func NewSwitchOnTypeNode() node.Node {
	return &SwitchOnTypeNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "switch-on-type",
				Name:        "Switch on Type",
				Description: "Routes execution by the runtime type of a generic value",
				Category:    "Logic",
				Version:     "1.0.0",
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
				{ID: "value", Name: "Value", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
			},
			Outputs: []types.Pin{
				{ID: "string_out", Name: "String", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 0},
				{ID: "integer_out", Name: "Integer", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 1},
				{ID: "float_out", Name: "Float", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 2},
				{ID: "boolean_out", Name: "Boolean", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 3},
				{ID: "struct_out", Name: "Struct", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 4},
				{ID: "other_out", Name: "Other", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 5},
			},
		},
	}
}

func (n *SwitchOnTypeNode) Execute(ctx node.ExecutionContext) error {
	value, exists := ctx.GetInputValue("value")
	if !exists {
		return fmt.Errorf("switch-on-type: missing required input: value")
	}

	pin := kindOf(value.Raw)
	return ctx.ActivateOutputFlow(pin)
}

func kindOf(raw interface{}) string {
	switch raw.(type) {
	case string:
		return "string_out"
	case int, int32, int64:
		return "integer_out"
	case float32, float64:
		return "float_out"
	case bool:
		return "boolean_out"
	case map[string]interface{}:
		return "struct_out"
	default:
		return "other_out"
	}
}
