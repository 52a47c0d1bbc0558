package logic

import (
	"fmt"
	"time"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// ForEachNode iterates an array input, synchronously dispatching its "loop"
// body once per element (via ExecuteConnectedNodes so the body's nodes
// re-run on every element rather than once), then fires "completed". index
// and value are written before each dispatch so the body can read the
// current element through ordinary data pins.
type ForEachNode struct {
	node.BaseNode
}

func NewForEachNode() node.Node {
	return &ForEachNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "for-each",
				Name:        "For Each",
				Description: "Runs its loop body once per array element",
				Category:    "Logic",
				Version:     "1.0.0",
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
				{ID: "array", Name: "Array", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeGeneric, Shape: types.ValueShapeArray}},
			},
			Outputs: []types.Pin{
				{ID: "loop", Name: "Loop Body", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 0},
				{ID: "index", Name: "Index", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeInteger}, Index: 1},
				{ID: "value", Name: "Value", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeGeneric}, Index: 2},
				{ID: "completed", Name: "Completed", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 3},
			},
		},
	}
}

func (n *ForEachNode) Execute(ctx node.ExecutionContext) error {
	arrayValue, exists := ctx.GetInputValue("array")
	if !exists {
		return fmt.Errorf("for-each: missing required input: array")
	}
	items, err := arrayValue.AsArray()
	if err != nil {
		return fmt.Errorf("for-each: %w", err)
	}

	ctx.RecordDebugInfo(types.DebugInfo{
		NodeID:      ctx.GetNodeID(),
		Description: "iteration started",
		Value:       map[string]interface{}{"length": len(items)},
		Timestamp:   time.Now(),
	})

	elemType := types.TypePair{Variable: types.VariableTypeGeneric}
	for i, item := range items {
		ctx.SetOutputValue("index", types.NewValue(types.VariableTypeInteger, i))
		ctx.SetOutputValue("value", types.Value{Type: elemType, Raw: item})

		if err := ctx.ExecuteConnectedNodes("loop"); err != nil {
			return fmt.Errorf("for-each: element %d: %w", i, err)
		}
	}

	return ctx.ExecuteConnectedNodes("completed")
}
