package logic

import (
	"fmt"
	"time"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// IfConditionNode activates exactly one of two execution outputs depending
// on a boolean input.
type IfConditionNode struct {
	node.BaseNode
}

func NewIfConditionNode() node.Node {
	return &IfConditionNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "if-condition",
				Name:        "If Condition",
				Description: "Executes one of two branches based on a condition",
				Category:    "Logic",
				Version:     "1.0.0",
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
				{ID: "condition", Name: "Condition", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeBoolean}},
			},
			Outputs: []types.Pin{
				{ID: "true", Name: "True", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 0},
				{ID: "false", Name: "False", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 1},
			},
		},
	}
}

func (n *IfConditionNode) Execute(ctx node.ExecutionContext) error {
	conditionValue, exists := ctx.GetInputValue("condition")
	if !exists {
		return fmt.Errorf("if-condition: missing required input: condition")
	}
	condition, err := conditionValue.AsBoolean()
	if err != nil {
		return fmt.Errorf("if-condition: %w", err)
	}

	ctx.RecordDebugInfo(types.DebugInfo{
		NodeID:      ctx.GetNodeID(),
		Description: "condition evaluated",
		Value:       map[string]interface{}{"condition": condition},
		Timestamp:   time.Now(),
	})

	if condition {
		return ctx.ActivateOutputFlow("true")
	}
	return ctx.ActivateOutputFlow("false")
}
