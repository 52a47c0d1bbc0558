package logic

import (
	"fmt"
	"time"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// BranchNode routes execution to whichever of up to four declared case
// values equals the input value, or to "default" if none match. Values are
// compared through their string coercion, which is permissive enough for
// the mixed-numeric/string cases a visual board's editor widgets produce
// without reimplementing type-specific equality per VariableType.
type BranchNode struct {
	node.BaseNode
}

func NewBranchNode() node.Node {
	return &BranchNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "branch",
				Name:        "Branch",
				Description: "Routes execution based on a value (like a switch statement)",
				Category:    "Logic",
				Version:     "1.0.0",
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
				{ID: "value", Name: "Value", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
				{ID: "case1", Name: "Case 1", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
				{ID: "case2", Name: "Case 2", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
				{ID: "case3", Name: "Case 3", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
				{ID: "case4", Name: "Case 4", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric}},
			},
			Outputs: []types.Pin{
				{ID: "case1_out", Name: "Case 1", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 0},
				{ID: "case2_out", Name: "Case 2", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 1},
				{ID: "case3_out", Name: "Case 3", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 2},
				{ID: "case4_out", Name: "Case 4", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 3},
				{ID: "default", Name: "Default", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 4},
				{ID: "matched_case", Name: "Matched Case", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeInteger}, Index: 5},
			},
		},
	}
}

func (n *BranchNode) Execute(ctx node.ExecutionContext) error {
	value, exists := ctx.GetInputValue("value")
	if !exists {
		return fmt.Errorf("branch: missing required input: value")
	}
	valueStr, err := value.AsString()
	if err != nil {
		return fmt.Errorf("branch: %w", err)
	}

	cases := []string{"case1", "case2", "case3", "case4"}
	for i, caseID := range cases {
		caseValue, ok := ctx.GetInputValue(caseID)
		if !ok {
			continue
		}
		caseStr, err := caseValue.AsString()
		if err != nil || caseStr == "" || caseStr != valueStr {
			continue
		}
		ctx.RecordDebugInfo(types.DebugInfo{
			NodeID:      ctx.GetNodeID(),
			Description: fmt.Sprintf("matched %s", caseID),
			Value:       map[string]interface{}{"value": valueStr},
			Timestamp:   time.Now(),
		})
		ctx.SetOutputValue("matched_case", types.NewValue(types.VariableTypeInteger, i+1))
		return ctx.ActivateOutputFlow(caseID + "_out")
	}

	ctx.SetOutputValue("matched_case", types.NewValue(types.VariableTypeInteger, 0))
	return ctx.ActivateOutputFlow("default")
}
